package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/junbin-yang/go-parselab/pkg/udpgram"
)

func runDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	hexInput := fs.String("hex", "", "Datagram bytes as a hex string")

	fs.Usage = func() {
		fmt.Println("Usage: parselab decode [options]")
		fmt.Println()
		fmt.Println("Decode a hex datagram with the UDP grammar")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  parselab decode -hex 005000510003ABCD010203")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *hexInput == "" {
		fs.Usage()
		os.Exit(1)
	}

	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\t' {
			return -1
		}
		return r
	}, *hexInput)

	data, err := hex.DecodeString(cleaned)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid hex input: %v\n", err)
		os.Exit(1)
	}

	msg, err := udpgram.Decode(data)
	if err != nil {
		switch {
		case errors.Is(err, udpgram.ErrPayloadOutOfRange):
			fmt.Fprintf(os.Stderr, "Rejected: %v\n", err)
		case errors.Is(err, udpgram.ErrGrammarMismatch):
			fmt.Fprintf(os.Stderr, "No match: %v\n", err)
		default:
			fmt.Fprintf(os.Stderr, "Decode failed: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("src_port: %d\n", msg.SrcPort)
	fmt.Printf("dst_port: %d\n", msg.DstPort)
	fmt.Printf("length:   %d\n", msg.Length)
	fmt.Printf("checksum: 0x%04X (computed 0x%04X)\n", msg.Checksum, udpgram.Checksum(msg.Payload))
	if len(msg.Payload) > 0 {
		fmt.Println("payload:")
		fmt.Print(hex.Dump(msg.Payload))
	}
}
