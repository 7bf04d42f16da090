package rewrite

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/marka/doc"
)

// ConfigFile is the on-disk YAML shape consumed by the CLI and the preview
// server: plain configuration values, reference substitutions, and
// choice-group selections.
type ConfigFile struct {
	Values        Config            `yaml:"values"`
	Substitutions map[string]string `yaml:"substitutions"`
	Selections    map[string]string `yaml:"selections"`
}

// LoadConfig parses a YAML configuration document.
func LoadConfig(data []byte) (*ConfigFile, error) {
	var cf ConfigFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	return &cf, nil
}

// Context builds a resolution context from the file's values,
// substitutions, and selections.
func (cf *ConfigFile) Context(template Config) (*Context, error) {
	ctx, err := NewContext(cf.Values, template)
	if err != nil {
		return nil, err
	}
	if len(cf.Substitutions) > 0 {
		refs := make(map[string]doc.Element, len(cf.Substitutions))
		for name, text := range cf.Substitutions {
			refs[name] = doc.Text{Content: text}
		}
		ctx = ctx.WithReferences(refs)
	}
	if len(cf.Selections) > 0 {
		ctx = ctx.WithSelections(cf.Selections)
	}
	return ctx, nil
}
