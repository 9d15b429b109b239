// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/k0kubun/pp/v3"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"hdlgen/grammar"
	"hdlgen/internal/config"
	"hdlgen/internal/design"
	"hdlgen/internal/errors"
	"hdlgen/repl"
)

func main() {
	output := flag.String("output", "", "write SystemVerilog to file (default: stdout)")
	flag.StringVar(output, "o", "", "write SystemVerilog to file (shorthand)")
	grouped := flag.Bool("grouped", false, "group declarations before processes in every module")
	dump := flag.Bool("dump", false, "print the allocated memory maps to stderr")
	format := flag.Bool("fmt", false, "print the .rmap description in canonical form and exit")
	toJSON := flag.Bool("json", false, "print the description as JSON and exit")
	interactive := flag.Bool("i", false, "read descriptions interactively from stdin")
	verbosity := flag.Int("v", 0, "log verbosity (-1 = warnings, 0 = notices, 1 = info, 2 = debug)")
	flag.Parse()

	commonlog.Configure(*verbosity, nil)

	if *interactive {
		fmt.Println("hdlgen interactive mode, close a module's braces to generate it")
		repl.Start(os.Stdin, os.Stdout)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: hdlgen-cli [-o file] [-grouped] [-dump] [-fmt] [-json] [-v n] <design.rmap|design.json>")
		fmt.Fprintln(os.Stderr, "       hdlgen-cli -i")
		os.Exit(1)
	}

	startTime := time.Now()
	path := args[0]

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %v\n", err)
		os.Exit(1)
	}

	reporter := errors.NewErrorReporter(path, string(source))
	fail := func(err error) {
		fmt.Fprint(os.Stderr, reporter.Format(err))
		fmt.Fprintln(os.Stderr, color.RedString("Generation failed after %s", formatDuration(time.Since(startTime))))
		os.Exit(1)
	}

	if *format {
		if filepath.Ext(path) == ".json" {
			fail(fmt.Errorf("-fmt only applies to .rmap descriptions"))
		}
		file, err := grammar.ParseString(path, string(source))
		if err != nil {
			fail(err)
		}
		fmt.Print(file.String())
		return
	}

	d, err := config.Parse(path, source)
	if err != nil {
		fail(err)
	}
	for _, w := range d.Warnings {
		fmt.Fprint(os.Stderr, reporter.FormatError(w))
	}

	if *toJSON {
		data, err := d.JSON()
		if err != nil {
			fail(err)
		}
		fmt.Println(string(data))
		return
	}

	if *grouped {
		for i := range d.Modules {
			d.Modules[i].Grouped = true
		}
	}

	if *dump {
		for i := range d.Modules {
			maps, err := design.MemoryMaps(&d.Modules[i])
			if err != nil {
				fail(err)
			}
			for j, mm := range maps {
				fmt.Fprintf(os.Stderr, "%s bus %d (%s): %d slots, %d bit address\n",
					d.Modules[i].Name, j, d.Modules[i].Buses[j].Kind, mm.TotalSlots(), mm.AddrWidth())
				pp.Fprintln(os.Stderr, mm.Slots())
			}
		}
	}

	text, err := design.Generate(d)
	if err != nil {
		fail(err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(text), 0o644); err != nil {
			fail(fmt.Errorf("writing %s: %w", *output, err))
		}
	} else {
		fmt.Print(text)
	}

	fmt.Fprintln(os.Stderr, color.GreenString("Successfully generated %d modules from %s in %s",
		len(d.Modules), path, formatDuration(time.Since(startTime))))
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
