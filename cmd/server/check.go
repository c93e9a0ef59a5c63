package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hazyhaar/sjisgate/pkg/sjis"
)

// cmdCheck validates input lines offline, one verdict per line.
// Exit code 1 when any line is forbidden, 2 on operational errors.
func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	modeName := fs.String("mode", "none", "permitted sign mode: none, bars_dots or all")
	variant := fs.String("variant", "kanji", "table variant: symbols or kanji")
	quiet := fs.Bool("quiet", false, "suppress per-line output, exit code only")
	fs.Parse(args)

	mode, err := sjis.ParseMode(*modeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	tables, ok := sjis.TablesByName(*variant)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", *variant)
		os.Exit(2)
	}

	var in io.Reader = os.Stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		defer f.Close()
		in = f
	}

	validator := sjis.NewValidator(nil, nil)

	anyForbidden := false
	lineNo := 0
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		report, err := validator.Check(sc.Text(), mode, tables)
		if err != nil {
			fmt.Fprintf(os.Stderr, "line %d: %v\n", lineNo, err)
			os.Exit(2)
		}
		if report.Forbidden {
			anyForbidden = true
		}
		if !*quiet {
			verdict := "ok"
			switch {
			case report.SymbolHit && report.EncodingForbidden:
				verdict = "FORBIDDEN (symbol, encoding)"
			case report.SymbolHit:
				verdict = "FORBIDDEN (symbol)"
			case report.EncodingForbidden:
				verdict = "FORBIDDEN (encoding)"
			}
			fmt.Printf("line %d: %s\n", lineNo, verdict)
		}
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if anyForbidden {
		os.Exit(1)
	}
}
