package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/marka/ui"
)

func newServeCmd() *cobra.Command {
	var addr string
	var configFile string
	var templateFile string

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Start a live HTML preview server for a directory of markup files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			server, err := ui.NewServer(dir, configFile, templateFile)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}

			displayAddr := addr
			if strings.HasPrefix(addr, ":") {
				displayAddr = "localhost" + addr
			}
			fmt.Printf("Serving %s at http://%s\n", dir, displayAddr)
			return http.ListenAndServe(addr, server)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "address to listen on")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVarP(&templateFile, "template", "t", "", "template file to wrap documents in")

	return cmd
}
