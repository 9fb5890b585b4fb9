// Package tools holds the tool registry, the request dispatcher, and the
// ContentGeo tool handlers.
package tools

import (
	"context"
	"errors"
	"fmt"
)

// ParamType is the declared type a raw parameter value is coerced to.
type ParamType string

const (
	TypeString ParamType = "string"
	TypeFloat  ParamType = "float"
)

// Param declares one tool parameter.
type Param struct {
	Name        string
	Type        ParamType
	Required    bool
	Description string
	// Default is used when the caller omits the parameter and HasDefault is set.
	Default    string
	HasDefault bool
}

// HandlerFunc implements one tool. It never panics on bad input: failures are
// reported through the returned Result.
type HandlerFunc func(ctx context.Context, args Args) Result

// Tool is a named, invocable operation.
type Tool struct {
	Name        string
	Description string
	Params      []Param
	Handler     HandlerFunc
}

// Builder collects tool registrations at startup. Errors are accumulated and
// reported by Build so that registration reads as a flat list of calls.
type Builder struct {
	tools []Tool
	index map[string]int
	errs  []error
}

// NewBuilder returns an empty registry builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

// Register adds t. A duplicate name, a missing handler, or a malformed
// parameter list makes Build fail.
func (b *Builder) Register(t Tool) *Builder {
	if err := validateTool(t); err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	if _, exists := b.index[t.Name]; exists {
		b.errs = append(b.errs, fmt.Errorf("tool %q is already registered", t.Name))
		return b
	}
	b.index[t.Name] = len(b.tools)
	b.tools = append(b.tools, t)
	return b
}

// Build returns the immutable registry, or every registration error joined.
func (b *Builder) Build() (*Registry, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	tools := make([]Tool, len(b.tools))
	copy(tools, b.tools)
	index := make(map[string]int, len(b.index))
	for k, v := range b.index {
		index[k] = v
	}
	return &Registry{tools: tools, index: index}, nil
}

func validateTool(t Tool) error {
	if t.Name == "" {
		return errors.New("tool has empty name")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %q has no handler", t.Name)
	}
	seen := make(map[string]bool, len(t.Params))
	for _, p := range t.Params {
		if p.Name == "" {
			return fmt.Errorf("tool %q has a parameter with empty name", t.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("tool %q declares parameter %q twice", t.Name, p.Name)
		}
		seen[p.Name] = true
		if p.Type != TypeString && p.Type != TypeFloat {
			return fmt.Errorf("tool %q parameter %q has unsupported type %q", t.Name, p.Name, p.Type)
		}
	}
	return nil
}

// Registry is the read-only tool table. Safe for concurrent use.
type Registry struct {
	tools []Tool
	index map[string]int
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.index[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// Names returns all tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Name
	}
	return names
}

// Tools returns a copy of all tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.tools)
}
