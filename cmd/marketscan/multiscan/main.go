// multiscan screens the daily tape for momentum gaps: stocks opening well
// above the prior close on heavy relative volume while trending over their
// fast and slow EMAs.
package main

import (
	"fmt"
	"os"

	"marketscan/internal/cli"
	"marketscan/pkg/scan"
)

func main() {
	if err := cli.Run(scan.MultiscanDefaults(), scan.MultiscanSignals); err != nil {
		fmt.Fprintf(os.Stderr, "multiscan: %v\n", err)
		os.Exit(1)
	}
}
