package gateway

import (
	"context"
	"encoding/json"
	"math"
	"strconv"

	"github.com/pressops/devto-mcp/internal/common"
)

// Upstream executes a built request against the content platform. The
// adapter owns timeout and retry policy; the dispatcher never retries.
type Upstream interface {
	Execute(ctx context.Context, req *UpstreamRequest) (json.RawMessage, error)
}

// ReshapeFunc reduces a raw upstream payload to a tool's declared result
// shape (field subset/renaming only).
type ReshapeFunc func(shape Shape, raw json.RawMessage) (interface{}, error)

// Args holds one call's validated arguments. Values include applied
// defaults; the raw map is retained for three-state field probing.
type Args struct {
	values map[string]interface{}
	raw    map[string]interface{}
}

// String returns a validated string argument ("" when unset).
func (a *Args) String(name string) string {
	v, _ := a.values[name].(string)
	return v
}

// Int returns a validated numeric argument (0 when unset).
func (a *Args) Int(name string) int {
	v, _ := a.values[name].(int)
	return v
}

// Bool returns a validated boolean argument (false when unset).
func (a *Args) Bool(name string) bool {
	v, _ := a.values[name].(bool)
	return v
}

// Field returns the three-state view of an argument as the caller supplied it.
func (a *Args) Field(name string) Field {
	return fieldFromArgs(a.raw, name)
}

// Dispatcher maps a tool identifier plus raw arguments to one upstream call.
// It is safe for concurrent use: the catalog is read-only and all per-call
// state lives in the CallContext and Args.
type Dispatcher struct {
	catalog  *Catalog
	upstream Upstream
	reshape  ReshapeFunc
	logger   *common.Logger
}

// NewDispatcher creates a dispatcher over the given catalog and adapter.
func NewDispatcher(catalog *Catalog, upstream Upstream, reshape ReshapeFunc, logger *common.Logger) *Dispatcher {
	return &Dispatcher{
		catalog:  catalog,
		upstream: upstream,
		reshape:  reshape,
		logger:   logger,
	}
}

// Catalog returns the dispatcher's tool catalog.
func (d *Dispatcher) Catalog() *Catalog {
	return d.catalog
}

// Dispatch runs one tool call to completion: lookup, argument validation,
// auth gate, upstream request construction, execution, and result reshaping.
// Validation and auth failures never reach the network. Any returned error
// normalizes to a *Error.
func (d *Dispatcher) Dispatch(ctx context.Context, toolName string, rawArgs map[string]interface{}, call CallContext) (interface{}, error) {
	desc, ok := d.catalog.Lookup(toolName)
	if !ok {
		return nil, Errorf(KindNotFound, "unknown tool %q", toolName)
	}

	args, err := validateArgs(desc, rawArgs)
	if err != nil {
		return nil, err
	}

	if desc.RequiresAuth && !call.Credential.Present() {
		return nil, Errorf(KindUnauthenticated,
			"tool %q requires a dev.to API key: pass api_key with the call, send it on the connection, or configure a server key", toolName)
	}

	req, berr := desc.build(args)
	if berr != nil {
		return nil, Normalize(berr)
	}
	req.Credential = call.Credential
	req.CorrelationID = call.CorrelationID

	log := d.logger.WithCorrelationId(call.CorrelationID)
	log.Debug().
		Str("tool", toolName).
		Str("method", req.Method).
		Str("path", req.Path).
		Str("transport", string(call.Transport)).
		Str("credential", call.Credential.Preview()).
		Str("credential_source", string(call.Credential.Source())).
		Msg("dispatching tool call")

	raw, uerr := d.upstream.Execute(ctx, req)
	if uerr != nil {
		return nil, Normalize(uerr)
	}

	result, rerr := d.reshape(desc.Shape, raw)
	if rerr != nil {
		return nil, Normalize(rerr)
	}
	return result, nil
}

// validateArgs checks raw arguments against a descriptor's parameter list
// and applies defaults. Unknown argument names are ignored.
func validateArgs(desc *Descriptor, rawArgs map[string]interface{}) (*Args, *Error) {
	if rawArgs == nil {
		rawArgs = map[string]interface{}{}
	}
	values := make(map[string]interface{}, len(desc.Params))

	for _, p := range desc.Params {
		raw, supplied := rawArgs[p.Name]

		if !supplied {
			if p.Required {
				return nil, Errorf(KindInvalidArgument, "missing required parameter %q for tool %q", p.Name, desc.Name)
			}
			if p.Default != nil {
				values[p.Name] = p.Default
			}
			continue
		}

		if raw == nil {
			if p.Nullable {
				continue // explicit null, surfaced via Args.Field
			}
			return nil, Errorf(KindInvalidArgument, "parameter %q must not be null", p.Name)
		}

		val, verr := coerceParam(p, raw)
		if verr != nil {
			return nil, verr
		}
		values[p.Name] = val
	}

	return &Args{values: values, raw: rawArgs}, nil
}

// coerceParam converts a raw JSON value to the parameter's semantic type.
func coerceParam(p Param, raw interface{}) (interface{}, *Error) {
	switch p.Type {
	case ParamString:
		s, ok := coerceString(raw, p.AllowNumeric)
		if !ok {
			return nil, Errorf(KindInvalidArgument, "parameter %q must be a string", p.Name)
		}
		if p.Required && s == "" {
			return nil, Errorf(KindInvalidArgument, "parameter %q must not be empty", p.Name)
		}
		if len(p.Enum) > 0 && !contains(p.Enum, s) {
			return nil, Errorf(KindInvalidArgument, "parameter %q must be one of %v, got %q", p.Name, p.Enum, s)
		}
		return s, nil

	case ParamNumber:
		n, ok := coerceInt(raw)
		if !ok {
			return nil, Errorf(KindInvalidArgument, "parameter %q must be an integer", p.Name)
		}
		if p.Positive && n < 1 {
			return nil, Errorf(KindInvalidArgument, "parameter %q must be at least 1, got %d", p.Name, n)
		}
		return n, nil

	case ParamBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, Errorf(KindInvalidArgument, "parameter %q must be a boolean", p.Name)
		}
		return b, nil
	}

	return nil, Errorf(KindInvalidArgument, "parameter %q has unsupported type %q", p.Name, p.Type)
}

func coerceString(raw interface{}, allowNumeric bool) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case float64:
		if allowNumeric && v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10), true
		}
	case int:
		if allowNumeric {
			return strconv.Itoa(v), true
		}
	case json.Number:
		if allowNumeric {
			return v.String(), true
		}
	}
	return "", false
}

func coerceInt(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	case int:
		return v, true
	case int64:
		return int(v), true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
	}
	return 0, false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
