/*
 * DICE
 *
 * Copyright 2026 The DICE Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Command dice is the thin collaborator of §1 of spec.md: it reads a source
// file, runs the lex/parse/interpret pipeline, and reports the first error
// from whichever stage produced it.
package main

import (
	"flag"
	"fmt"
	"os"

	"devt.de/krotik/common/fileutil"

	"dice/config"
	"dice/interpreter"
	"dice/parser"
	"dice/stdlib"
	"dice/util"
)

func main() {
	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)

	verbose := flag.Bool("v", false, "trace parallel branch scheduling to stderr")
	workers := flag.Int("workers", config.Int(config.WorkerCount), "cap on concurrently running branches per parallel block (0 = unbounded)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <path.dice>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "DICE %s - a structured-parallelism interpreter\n", config.ProductVersion)
	}

	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	config.Config[config.WorkerCount] = *workers

	if err := run(flag.Arg(0), *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, verbose bool) error {
	if ok, err := fileutil.PathExists(path); err != nil || !ok {
		return fmt.Errorf("cannot read %s: %v", path, err)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	program, err := parser.Parse(path, string(src))
	if err != nil {
		return err
	}

	var logger util.Logger = util.NewNullLogger()
	if verbose {
		logger = util.NewStdOutLogger()
	}

	in := interpreter.New(path, os.Stdout, logger)
	stdlib.Register(in, os.Stdout)

	return in.Run(program)
}
