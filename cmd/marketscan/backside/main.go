// backside screens for fade setups: stocks that ran hard into the prior
// session's high on outsized volume and are now gapping back down.
package main

import (
	"fmt"
	"os"

	"marketscan/internal/cli"
	"marketscan/pkg/scan"
)

func main() {
	if err := cli.Run(scan.BacksideDefaults(), scan.BacksideSignals); err != nil {
		fmt.Fprintf(os.Stderr, "backside: %v\n", err)
		os.Exit(1)
	}
}
