package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dhamidi/marka/parse"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:           "marka",
		Short:         "A markup document transformer",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// printError writes the error to stderr, in red when stderr is a
// terminal. Parse failures already carry their line:column position.
func printError(err error) {
	prefix := "error:"
	var failure *parse.Failure
	if errors.As(err, &failure) {
		prefix = "syntax error:"
	}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m %s\n", prefix, err)
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", prefix, err)
}
