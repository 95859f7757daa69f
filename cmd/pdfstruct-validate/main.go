// Command pdfstruct-validate checks that a JSON file has the document shape
// produced by pdfstruct.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/a3tai/pdfstruct/internal/document"
)

// Exit codes
const (
	exitValid   = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	flags.SetOutput(stderr)
	quiet := flags.BoolP("quiet", "q", false, "Only set the exit code")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [--quiet] <file.json>\n\n", args[0])
		fmt.Fprintf(stderr, "Exit codes: 0 valid, 1 invalid, 2 usage error\n\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitValid
		}
		return exitUsage
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return exitUsage
	}

	path := flags.Arg(0)
	if err := document.ValidateFile(path); err != nil {
		if !*quiet {
			fmt.Fprintf(stdout, "INVALID: %v\n", err)
		}
		return exitInvalid
	}

	if !*quiet {
		fmt.Fprintln(stdout, "VALID")
	}
	return exitValid
}
