package main

import (
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/marka/lsp"
)

func newLSPCmd() *cobra.Command {
	var logFile string
	var verbose int

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol, so logs go to stderr or a file
			if logFile != "" {
				commonlog.Configure(verbose, &logFile)
			} else {
				commonlog.Configure(verbose, nil)
			}
			return lsp.NewLSPServer(version).RunStdio()
		},
	}

	cmd.Flags().StringVar(&logFile, "log", "", "write log output to this file")
	cmd.Flags().CountVarP(&verbose, "verbose", "v", "increase log verbosity")

	return cmd
}
