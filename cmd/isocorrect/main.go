// isocorrect - natural-abundance correction for tandem MS tracer data
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/isocorrect/cmd/isocorrect/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
