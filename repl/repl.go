// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"hdlgen/internal/config"
	"hdlgen/internal/design"
	"hdlgen/internal/errors"
)

const (
	PROMPT   = ">> "
	CONTINUE = ".. "
)

const filename = "<repl>"

// Start reads module descriptions from in and writes the generated
// SystemVerilog to out. Input is collected until every opened brace is
// closed, so a module may span several lines.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	var pending strings.Builder
	depth := 0

	fmt.Fprint(out, PROMPT)
	for scanner.Scan() {
		line := scanner.Text()
		pending.WriteString(line)
		pending.WriteString("\n")
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth > 0 {
			fmt.Fprint(out, CONTINUE)
			continue
		}

		source := pending.String()
		pending.Reset()
		depth = 0
		if strings.TrimSpace(source) != "" {
			fmt.Fprint(out, Eval(source))
		}
		fmt.Fprint(out, PROMPT)
	}
	fmt.Fprintln(out)
}

// Eval generates the modules described by source, or formats the error
func Eval(source string) string {
	reporter := errors.NewErrorReporter(filename, source)

	d, err := config.ParseDSL(filename, source)
	if err != nil {
		return reporter.Format(err)
	}

	var b strings.Builder
	for _, w := range d.Warnings {
		b.WriteString(reporter.FormatError(w))
	}
	text, err := design.Generate(d)
	if err != nil {
		b.WriteString(reporter.Format(err))
		return b.String()
	}
	b.WriteString(text)
	return b.String()
}
