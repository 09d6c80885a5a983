package main

import (
	"flag"
	"fmt"
	"os"

	"chosenoffset.com/overworld/internal/placeholders"
)

func main() {
	assetDir := flag.String("out", "assets", "directory to write the sheets to")
	flag.Parse()

	fmt.Println("Overworld Placeholder Graphics Generator")
	fmt.Println("========================================")
	fmt.Println()

	if err := placeholders.GenerateAndSave(*assetDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Done! Placeholder graphics are ready to use.")
	fmt.Println("Run cmd/overworld to see them in action!")
}
