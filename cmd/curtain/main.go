// Curtain - proteomics differential analysis and volcano plotting tool
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/Curtain/cmd/curtain/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
