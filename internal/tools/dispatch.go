package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/contentgeo-mcp/internal/common"
)

// Response is the outcome of one dispatch.
type Response struct {
	Tool string
	Result
}

// IsError reports whether the response carries an error payload.
func (r Response) IsError() bool {
	return r.Err != nil
}

// Kind returns the error kind, or "" on success.
func (r Response) Kind() Kind {
	if r.Err == nil {
		return ""
	}
	return r.Err.Kind
}

// Body returns what is serialized to the caller: the upstream payload on
// success, the error payload otherwise.
func (r Response) Body() any {
	if r.Err != nil {
		return r.Err.Payload()
	}
	return r.Value
}

// Bytes returns the serialized body. A relayed upstream payload is returned
// byte-for-byte; anything else is encoded without HTML escaping.
func (r Response) Bytes() ([]byte, error) {
	if raw, ok := r.Value.(json.RawMessage); ok && r.Err == nil {
		return raw, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.Body()); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// MarshalJSON encodes Body. Transports that must preserve upstream bytes
// exactly write Bytes instead: encoding/json compacts Marshaler output.
func (r Response) MarshalJSON() ([]byte, error) {
	return r.Bytes()
}

// Dispatcher resolves tool names against a Registry and runs handlers.
type Dispatcher struct {
	registry *Registry
	logger   *common.Logger
}

// NewDispatcher creates a dispatcher over an already-built registry.
func NewDispatcher(registry *Registry, logger *common.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, logger: logger}
}

// Registry returns the registry the dispatcher serves.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch resolves name, coerces raw parameters (first value per key wins),
// and invokes the handler. It always returns a Response; failures are
// reported in-band.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, raw map[string][]string) Response {
	logger := common.LoggerFromContext(ctx, d.logger)

	tool, ok := d.registry.Lookup(name)
	if !ok {
		logger.Warn().Str("tool", name).Msg("unknown tool requested")
		return Response{Tool: name, Result: Fail(NewError(KindUnknownTool,
			fmt.Sprintf("unknown tool: %s", name),
			map[string]any{"tool": name, "tools": d.registry.Names()},
		))}
	}

	args, argErr := coerceArgs(tool, raw)
	if argErr != nil {
		logger.Debug().Str("tool", name).Str("kind", string(argErr.Kind)).Str("error", argErr.Message).Msg("rejected tool call")
		return Response{Tool: name, Result: Fail(argErr)}
	}

	start := time.Now()
	res := d.invoke(ctx, tool, args)
	duration := time.Since(start)

	if res.Err != nil {
		logger.Warn().
			Str("tool", name).
			Str("kind", string(res.Err.Kind)).
			Str("error", res.Err.Message).
			Int64("duration_ms", duration.Milliseconds()).
			Msg("tool call failed")
	} else {
		logger.Debug().Str("tool", name).Int64("duration_ms", duration.Milliseconds()).Msg("tool call complete")
	}

	return Response{Tool: name, Result: res}
}

// invoke runs the handler, converting a panic into an Internal error.
func (d *Dispatcher) invoke(ctx context.Context, tool Tool, args Args) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			common.LoggerFromContext(ctx, d.logger).Error().
				Str("tool", tool.Name).
				Str("panic", fmt.Sprintf("%v", rec)).
				Str("stack", string(debug.Stack())).
				Msg("tool handler panicked")
			res = Fail(NewError(KindInternal, "internal error", map[string]any{"tool": tool.Name}))
		}
	}()
	return tool.Handler(ctx, args)
}

// coerceArgs extracts each declared parameter and converts it to its type.
// Presence decides "missing", never the value: lat=0 is a real coordinate.
func coerceArgs(tool Tool, raw map[string][]string) (Args, *Error) {
	values := make(map[string]Value, len(tool.Params))
	for _, p := range tool.Params {
		text, present := firstValue(raw, p.Name)
		if p.Type == TypeFloat {
			text = strings.TrimSpace(text)
			present = present && text != ""
		}
		if !present {
			if p.HasDefault {
				text = p.Default
			} else if p.Required {
				return Args{}, NewError(KindMissingParameter,
					fmt.Sprintf("%s parameter is required", p.Name),
					map[string]any{"parameter": p.Name})
			} else {
				continue
			}
		}

		v := Value{Raw: text}
		if p.Type == TypeFloat {
			n, err := strconv.ParseFloat(text, 64)
			if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
				return Args{}, NewError(KindInvalidParameter,
					fmt.Sprintf("%s must be a number, got %q", p.Name, text),
					map[string]any{"parameter": p.Name, "value": text})
			}
			v.Number = n
		}
		values[p.Name] = v
	}
	return NewArgs(values), nil
}

func firstValue(raw map[string][]string, key string) (string, bool) {
	vals, ok := raw[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}
