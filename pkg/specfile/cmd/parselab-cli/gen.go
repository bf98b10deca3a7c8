package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/junbin-yang/go-parselab/pkg/logger"
	"github.com/junbin-yang/go-parselab/pkg/specfile"
	"github.com/junbin-yang/go-parselab/pkg/testgen"
	"github.com/junbin-yang/go-parselab/pkg/udpgram"
)

func runGen(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	specPath := fs.String("spec", "", "Protocol spec file (omit to use the built-in UDP grammar)")
	capacity := fs.Int("capacity", udpgram.MaxPayloadLen, "Payload capacity for the spec grammar")
	count := fs.Int("count", 10, "Number of testcases to generate")
	invalid := fs.Bool("invalid", false, "Include truncated and oversized testcases")
	seed := fs.Int64("seed", 0, "Random seed (0 uses current time)")
	outDir := fs.String("out", "", "Write each testcase to <out>/<name>.bin instead of stdout")

	fs.Usage = func() {
		fmt.Println("Usage: parselab gen [options]")
		fmt.Println()
		fmt.Println("Generate testcase datagrams for decoder exercise")
		fmt.Println()
		fmt.Println("Options:")
		fs.PrintDefaults()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  parselab gen -count 20 -invalid")
		fmt.Println("  parselab gen -spec udp.yml -count 100 -seed 42 -out ./testcases")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}

	var gen *testgen.Generator
	if *specPath != "" {
		loader := specfile.NewLoader()
		defer loader.Close()
		g, err := loader.Load(*specPath)
		if err != nil {
			logger.Fatalf("load spec %s failed: %v", *specPath, err)
		}
		gen = testgen.NewFor(g, *capacity, s)
	} else {
		gen = testgen.New(s)
	}
	cases := gen.Batch(*count, *invalid)

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0755); err != nil {
			logger.Fatalf("create output dir failed: %v", err)
		}
		for _, c := range cases {
			path := filepath.Join(*outDir, c.Name+".bin")
			if err := os.WriteFile(path, c.Data, 0644); err != nil {
				logger.Fatalf("write testcase %s failed: %v", c.Name, err)
			}
		}
		logger.Infof("wrote %d testcases to %s (seed %d)", len(cases), *outDir, s)
		return
	}

	for _, c := range cases {
		status := "valid"
		if !c.Valid {
			status = "invalid: " + c.Reason
		}
		fmt.Printf("%s (%s, %d bytes)\n", c.Name, status, len(c.Data))
		fmt.Print(hex.Dump(c.Data))
	}
}
