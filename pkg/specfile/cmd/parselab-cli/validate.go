package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/junbin-yang/go-parselab/pkg/specfile"
)

func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	specPath := fs.String("spec", "", "Protocol spec file to validate")

	fs.Usage = func() {
		fmt.Println("Usage: parselab validate [options]")
		fmt.Println()
		fmt.Println("Validate a protocol spec file and report grammar errors")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  parselab validate -spec ./udp.yml")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *specPath == "" {
		fs.Usage()
		os.Exit(1)
	}

	loader := specfile.NewLoader()
	defer loader.Close()

	g, err := loader.Load(*specPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	doc := loader.Document()
	fmt.Printf("✓ Spec is valid: protocol %q, %d fields, %d fixed bytes\n",
		doc.Protocol, g.NumFields(), g.FixedSize())
}
