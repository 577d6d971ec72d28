// Package catalog describes the Microsoft Graph endpoints that can be exposed
// as MCP tools. The table in endpoints.go is generated; this file holds the
// descriptor types and the integrity checks run before registration.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Method is an HTTP method as declared by the generated client.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

// Normalize returns the upper-cased method. Unrecognized values are kept
// as-is so that policy can treat them as non-GET.
func (m Method) Normalize() Method {
	return Method(strings.ToUpper(strings.TrimSpace(string(m))))
}

// Location is where a parameter travels on the outgoing request.
type Location string

const (
	InPath  Location = "path"
	InQuery Location = "query"
	InBody  Location = "body"
)

// Parameter describes one argument accepted by an endpoint.
type Parameter struct {
	Name        string   `json:"name"`
	Wire        string   `json:"wire,omitempty"` // name on the Graph side, defaults to Name
	In          Location `json:"in"`
	Required    bool     `json:"required"`
	Type        string   `json:"type"`            // string, number, boolean, array, object
	Items       string   `json:"items,omitempty"` // element type for arrays
	Description string   `json:"description"`
}

// WireName returns the name used on the outgoing request.
func (p Parameter) WireName() string {
	if p.Wire != "" {
		return p.Wire
	}
	return p.Name
}

// Endpoint is one Graph method+path pair identified by a stable alias.
type Endpoint struct {
	Alias       string      `json:"alias"`
	Method      Method      `json:"method"`
	Path        string      `json:"path"`
	Description string      `json:"description"`
	Scopes      []string    `json:"scopes"`
	Parameters  []Parameter `json:"parameters"`
}

// Sentinel errors for catalog integrity failures.
var (
	ErrInvalidEndpoint = errors.New("catalog: invalid endpoint")
	ErrDuplicateAlias  = errors.New("catalog: duplicate alias")
)

// ValidateEndpoint checks that a descriptor carries every field the
// registrar relies on.
func ValidateEndpoint(ep Endpoint) error {
	if ep.Alias == "" {
		return fmt.Errorf("%w: empty alias (path %q)", ErrInvalidEndpoint, ep.Path)
	}
	if ep.Method == "" {
		return fmt.Errorf("%w: %q has empty method", ErrInvalidEndpoint, ep.Alias)
	}
	if ep.Path == "" || !strings.HasPrefix(ep.Path, "/") {
		return fmt.Errorf("%w: %q has invalid path %q", ErrInvalidEndpoint, ep.Alias, ep.Path)
	}
	if strings.Contains(ep.Path, "..") {
		return fmt.Errorf("%w: %q has invalid path %q (contains ..)", ErrInvalidEndpoint, ep.Alias, ep.Path)
	}

	seen := make(map[string]bool, len(ep.Parameters))
	for _, p := range ep.Parameters {
		if p.Name == "" {
			return fmt.Errorf("%w: %q has a parameter with empty name", ErrInvalidEndpoint, ep.Alias)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: %q declares parameter %q twice", ErrInvalidEndpoint, ep.Alias, p.Name)
		}
		seen[p.Name] = true

		switch p.In {
		case InPath:
			if !strings.Contains(ep.Path, "{"+p.WireName()+"}") {
				return fmt.Errorf("%w: %q path parameter %q not in path %q", ErrInvalidEndpoint, ep.Alias, p.Name, ep.Path)
			}
			if !p.Required {
				return fmt.Errorf("%w: %q path parameter %q must be required", ErrInvalidEndpoint, ep.Alias, p.Name)
			}
		case InQuery, InBody:
		default:
			return fmt.Errorf("%w: %q parameter %q has unknown location %q", ErrInvalidEndpoint, ep.Alias, p.Name, p.In)
		}
	}
	return nil
}

// Validate runs ValidateEndpoint over the catalog and rejects duplicate
// aliases. Suppressed endpoints are checked too: a broken catalog is a
// defect regardless of the policy in force.
func Validate(endpoints []Endpoint) error {
	seen := make(map[string]int, len(endpoints))
	for i, ep := range endpoints {
		if err := ValidateEndpoint(ep); err != nil {
			return fmt.Errorf("endpoint %d: %w", i, err)
		}
		if first, ok := seen[ep.Alias]; ok {
			return fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateAlias, ep.Alias, first, i)
		}
		seen[ep.Alias] = i
	}
	return nil
}

// Scopes returns the sorted union of the OAuth scopes the endpoints need.
func Scopes(endpoints []Endpoint) []string {
	set := make(map[string]struct{})
	for _, ep := range endpoints {
		for _, s := range ep.Scopes {
			set[s] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
