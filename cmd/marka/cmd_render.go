package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/marka/doc"
	"github.com/dhamidi/marka/format"
	"github.com/dhamidi/marka/markdown"
	"github.com/dhamidi/marka/rewrite"
	"github.com/dhamidi/marka/template"
)

func newRenderCmd() *cobra.Command {
	var outputFormat string
	var configFile string
	var templateFile string

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Parse, rewrite, and render a markup file",
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

			ctx, err := loadContext(configFile)
			if err != nil {
				return err
			}

			var out doc.Element = rewrite.Apply(root, rewrite.Rules{}, ctx)

			if templateFile != "" {
				tplData, err := os.ReadFile(templateFile)
				if err != nil {
					return fmt.Errorf("read template: %w", err)
				}
				tpl, err := template.Parse(string(tplData))
				if err != nil {
					return fmt.Errorf("parse template %s: %w", templateFile, err)
				}
				docRoot, ok := out.(doc.RootElement)
				if !ok {
					return fmt.Errorf("rewrite did not yield a document root")
				}
				out = template.Apply(tpl, docRoot, rewrite.Rules{}, ctx)
			}

			var encoder format.Encoder
			switch outputFormat {
			case "html":
				encoder = format.NewHTMLEncoder(os.Stdout)
			case "text":
				encoder = format.NewTextEncoder(os.Stdout)
			case "json":
				encoder = format.NewJSONEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(out); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "html", "output format (html, text, json)")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVarP(&templateFile, "template", "t", "", "template file to wrap the document in")

	return cmd
}

func loadContext(configFile string) (*rewrite.Context, error) {
	if configFile == "" {
		return rewrite.NewContext(nil, nil)
	}
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cf, err := rewrite.LoadConfig(data)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configFile, err)
	}
	return cf.Context(nil)
}
