package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/bobmcallan/safe-email-mcp/internal/catalog"
)

// Argument errors returned (wrapped in *InvocationError) by tool invocations.
var (
	ErrUnknownTool     = errors.New("mcp: unknown tool")
	ErrUnknownArgument = errors.New("unknown argument")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
)

// InvocationError is a failed tool call. Err is an argument error or the
// error returned by the dispatcher.
type InvocationError struct {
	Tool string
	Err  error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// bindInvoker returns the wrapper that validates arguments against ep and
// dispatches the request.
func bindInvoker(ep catalog.Endpoint, client Dispatcher) func(context.Context, map[string]any) ([]byte, error) {
	method := string(ep.Method.Normalize())
	known := make(map[string]bool, len(ep.Parameters))
	for _, p := range ep.Parameters {
		known[p.Name] = true
	}

	fail := func(err error) ([]byte, error) {
		return nil, &InvocationError{Tool: ep.Alias, Err: err}
	}

	return func(ctx context.Context, args map[string]any) ([]byte, error) {
		names := make([]string, 0, len(args))
		for name := range args {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if !known[name] {
				return fail(fmt.Errorf("%w %q", ErrUnknownArgument, name))
			}
		}

		path := ep.Path
		query := url.Values{}
		body := map[string]any{}

		for _, p := range ep.Parameters {
			v, ok := args[p.Name]
			if !ok || v == nil {
				if p.Required {
					return fail(fmt.Errorf("%w %q", ErrMissingArgument, p.Name))
				}
				continue
			}

			switch p.In {
			case catalog.InPath:
				s, err := scalarString(v)
				if err != nil || s == "" {
					return fail(fmt.Errorf("%w %q: path parameters must be non-empty strings or numbers", ErrInvalidArgument, p.Name))
				}
				// PathEscape keeps dot segments, which would move the request
				// to a resource outside the catalog.
				if s == "." || s == ".." {
					return fail(fmt.Errorf("%w %q: dot segments are not allowed", ErrInvalidArgument, p.Name))
				}
				path = strings.ReplaceAll(path, "{"+p.WireName()+"}", url.PathEscape(s))
			case catalog.InQuery:
				s, err := queryValue(v)
				if err != nil {
					return fail(fmt.Errorf("%w %q: %v", ErrInvalidArgument, p.Name, err))
				}
				if s != "" {
					query.Set(p.WireName(), s)
				}
			case catalog.InBody:
				body[p.WireName()] = v
			}
		}

		var payload any
		if len(body) > 0 {
			payload = body
		}

		out, err := client.Do(ctx, method, path, query, payload)
		if err != nil {
			return fail(err)
		}
		return out, nil
	}
}

// scalarString formats a JSON scalar for a URL.
func scalarString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}

// queryValue formats a query argument. Arrays are joined with commas, the
// form OData expects for $select, $orderby and $expand.
func queryValue(v any) (string, error) {
	switch t := v.(type) {
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			s, err := scalarString(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	case []string:
		return strings.Join(t, ","), nil
	default:
		return scalarString(v)
	}
}
