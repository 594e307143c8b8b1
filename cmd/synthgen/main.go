// Command synthgen generates synthetic minority-class records for a CSV
// table with SMOTE-NC and summarizes tables with descriptive statistics.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
