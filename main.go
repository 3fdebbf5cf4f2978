// main wires the pivot CLI to its persistence layer.
package main

import (
	"fmt"
	"os"

	"github.com/annolab/pivot/cmd"
	"github.com/annolab/pivot/internal/iostore"
)

func main() {
	cmd.SetStoreManager(iostore.Manager)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
