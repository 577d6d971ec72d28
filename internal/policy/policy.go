// Package policy decides which catalog endpoints become callable tools.
//
// The decision has three independent parts:
//
//   - Decide applies the method rules: DELETE is never exposed, and
//     read-only mode exposes GET only.
//   - Config.Matches applies the optional tool-name pattern to the aliases
//     that survive Decide.
//   - ShouldIncludeAuthTools gates the login/logout tools by transport.
//
// A Config is built once at startup with NewConfig and is immutable after.
package policy

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/bobmcallan/safe-email-mcp/internal/catalog"
)

// Transport is the hosting transport the tool set is published on.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
)

// ErrInvalidToolPattern reports an enabled-tools pattern that does not compile.
var ErrInvalidToolPattern = errors.New("policy: invalid enabled-tools pattern")

// ErrInvalidTransport reports a transport other than stdio or http.
var ErrInvalidTransport = errors.New("policy: invalid transport")

// Config is the runtime exposure policy.
type Config struct {
	ReadOnly        bool
	EnabledTools    *regexp.Regexp // nil means every alias matches
	EnableAuthTools bool
	Transport       Transport
}

// NewConfig compiles pattern once and returns the immutable policy. An
// empty pattern disables filtering; a malformed one is an error, never a
// silent "match everything".
func NewConfig(readOnly bool, pattern string, enableAuthTools bool, transport Transport) (Config, error) {
	switch transport {
	case TransportStdio, TransportHTTP:
	case "":
		transport = TransportStdio
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidTransport, transport)
	}

	cfg := Config{
		ReadOnly:        readOnly,
		EnableAuthTools: enableAuthTools,
		Transport:       transport,
	}
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return Config{}, fmt.Errorf("%w %q: %v", ErrInvalidToolPattern, pattern, err)
		}
		cfg.EnabledTools = re
	}
	return cfg, nil
}

// Pattern returns the source of the enabled-tools pattern, or "".
func (c Config) Pattern() string {
	if c.EnabledTools == nil {
		return ""
	}
	return c.EnabledTools.String()
}

// Matches reports whether alias passes the enabled-tools filter. The match
// is case-sensitive and unanchored.
func (c Config) Matches(alias string) bool {
	if c.EnabledTools == nil {
		return true
	}
	return c.EnabledTools.MatchString(alias)
}

// Reasons reported by Decide.
const (
	ReasonSafetyFloor = "delete endpoints are never exposed"
	ReasonReadOnly    = "read-only mode exposes GET endpoints only"
	ReasonAllowed     = "allowed"
)

// Decision is the outcome of evaluating one endpoint.
type Decision struct {
	Expose bool
	Reason string
}

// Decide evaluates the method rules for ep. First matching rule wins:
// DELETE is suppressed unconditionally, then non-GET is suppressed in
// read-only mode, otherwise the endpoint is exposed. Unrecognized methods
// count as non-GET.
func Decide(ep catalog.Endpoint, cfg Config) Decision {
	method := ep.Method.Normalize()
	if method == catalog.MethodDelete {
		return Decision{Expose: false, Reason: ReasonSafetyFloor}
	}
	if cfg.ReadOnly && method != catalog.MethodGet {
		return Decision{Expose: false, Reason: ReasonReadOnly}
	}
	return Decision{Expose: true, Reason: ReasonAllowed}
}

// ShouldIncludeAuthTools reports whether login/logout/verify tools are
// published. They are always available over stdio; over HTTP they need an
// explicit opt-in because a remote caller could start a device-code flow.
func ShouldIncludeAuthTools(cfg Config) bool {
	switch cfg.Transport {
	case TransportStdio:
		return true
	case TransportHTTP:
		return cfg.EnableAuthTools
	default:
		return false
	}
}
