// Package rewrite applies rewrite rules to a document tree, replacing
// resolver nodes with their final values using a per-document resolution
// context.
package rewrite

import (
	"fmt"
	"strings"

	"github.com/dhamidi/marka/doc"
)

// Config is a tree of configuration values, as merged from template-level
// and document-level settings.
type Config map[string]any

// ConfigError reports a failed configuration merge or lookup. It is the
// only fatal error a rewrite can produce; resolution failures become
// visible Invalid placeholders instead.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration key %q: %s", e.Key, e.Reason)
}

// MergeConfigs merges document-level configuration over template-level
// configuration. On conflicting keys the document wins; nested maps merge
// recursively. A key holding a map on one side and a scalar on the other is
// a type mismatch and fails with a ConfigError.
func MergeConfigs(document, template Config) (Config, error) {
	return mergeConfigs(document, template, "")
}

func mergeConfigs(document, template Config, prefix string) (Config, error) {
	merged := make(Config, len(document)+len(template))
	for k, v := range template {
		merged[k] = v
	}
	for k, v := range document {
		existing, ok := merged[k]
		if !ok {
			merged[k] = v
			continue
		}
		docMap, docIsMap := asConfig(v)
		tplMap, tplIsMap := asConfig(existing)
		switch {
		case docIsMap && tplIsMap:
			sub, err := mergeConfigs(docMap, tplMap, prefix+k+".")
			if err != nil {
				return nil, err
			}
			merged[k] = sub
		case docIsMap != tplIsMap:
			return nil, &ConfigError{
				Key:    prefix + k,
				Reason: fmt.Sprintf("cannot merge %T with %T", v, existing),
			}
		default:
			merged[k] = v
		}
	}
	return merged, nil
}

func asConfig(v any) (Config, bool) {
	switch m := v.(type) {
	case Config:
		return m, true
	case map[string]any:
		return m, true
	}
	return nil, false
}

// Context is the resolution context for one document's rewrite: the merged
// configuration, a reference table, and the selected choice per choice
// group. Contexts form a parent chain; lookups fall through to the parent.
type Context struct {
	config     Config
	refs       map[string]doc.Element
	selections map[string]string
	parent     *Context
}

// NewContext builds a context from document and template configuration.
// The merge failing is the configuration error described in ConfigError.
func NewContext(document, template Config) (*Context, error) {
	merged, err := MergeConfigs(document, template)
	if err != nil {
		return nil, fmt.Errorf("merge configuration: %w", err)
	}
	return &Context{config: merged}, nil
}

// WithReferences derives a child context with additional reference
// bindings. The receiver becomes the parent for fall-through lookups.
func (c *Context) WithReferences(refs map[string]doc.Element) *Context {
	return &Context{config: c.config, refs: refs, selections: c.selections, parent: c}
}

// WithSelections derives a child context with the given choice-group
// selections.
func (c *Context) WithSelections(selections map[string]string) *Context {
	return &Context{config: c.config, refs: c.refs, selections: selections, parent: c}
}

// ConfigValue looks up a key in the merged configuration. Dotted keys
// traverse nested maps.
func (c *Context) ConfigValue(key string) (any, bool) {
	if v, ok := c.config[key]; ok {
		return v, true
	}
	parts := strings.Split(key, ".")
	var cur any = c.config
	for _, p := range parts {
		m, ok := asConfig(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Reference resolves a name against the context's reference table, then
// the parent chain, then string-valued configuration keys.
func (c *Context) Reference(name string) (doc.Element, bool) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if el, ok := ctx.refs[name]; ok {
			return el, true
		}
	}
	if v, ok := c.ConfigValue(name); ok {
		if s, ok := v.(string); ok {
			return doc.Text{Content: s}, true
		}
		return doc.Text{Content: fmt.Sprint(v)}, true
	}
	return nil, false
}

// Selection returns the selected choice for a named choice group.
func (c *Context) Selection(group string) (string, bool) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if sel, ok := ctx.selections[group]; ok {
			return sel, true
		}
	}
	return "", false
}
