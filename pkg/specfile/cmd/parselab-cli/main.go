package main

import (
	"fmt"
	"os"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		runValidate(os.Args[2:])
	case "gen":
		runGen(os.Args[2:])
	case "decode":
		runDecode(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("parselab version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("parselab - Datagram grammar toolkit")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  parselab <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  validate Validate a protocol spec file")
	fmt.Println("  gen      Generate testcase datagrams")
	fmt.Println("  decode   Decode a hex datagram")
	fmt.Println("  version  Show version information")
	fmt.Println("  help     Show this help message")
	fmt.Println()
	fmt.Println("Run 'parselab <command> -h' for more information on a command.")
}
