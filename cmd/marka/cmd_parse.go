package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/marka/format"
	"github.com/dhamidi/marka/markdown"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a markup file and dump the document tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			root, err := markdown.Parse(string(data))
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			var encoder format.Encoder
			switch outputFormat {
			case "text":
				encoder = format.NewTextEncoder(os.Stdout)
			case "json":
				encoder = format.NewJSONEncoder(os.Stdout)
			case "html":
				encoder = format.NewHTMLEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(root); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json, html)")

	return cmd
}
