// Package mcp turns the Graph endpoint catalog into MCP tools. Register
// applies the exposure policy and binds an invocation wrapper to every
// surviving endpoint; NewServer publishes the result on an mcp-go server.
package mcp

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/safe-email-mcp/internal/catalog"
	"github.com/bobmcallan/safe-email-mcp/internal/common"
	"github.com/bobmcallan/safe-email-mcp/internal/policy"
)

// Dispatcher sends one request to Graph. graph.Client implements it.
type Dispatcher interface {
	Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error)
}

// RegisteredTool is one callable tool bound to its endpoint.
type RegisteredTool struct {
	Name     string
	Endpoint catalog.Endpoint
	Tool     mcp.Tool
	Invoke   func(ctx context.Context, args map[string]any) ([]byte, error)
}

// RegistrationEvent is emitted once per registered tool.
type RegistrationEvent struct {
	Name   string
	Method catalog.Method
	Path   string
}

type registerOptions struct {
	logger *common.Logger
	hook   func(RegistrationEvent)
}

// RegisterOption configures Register.
type RegisterOption func(*registerOptions)

// WithLogger sets the logger used for registration events.
func WithLogger(l *common.Logger) RegisterOption {
	return func(o *registerOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRegistrationHook calls fn for every registered tool, in order.
func WithRegistrationHook(fn func(RegistrationEvent)) RegisterOption {
	return func(o *registerOptions) { o.hook = fn }
}

// ToolSet is the ordered, immutable result of Register.
type ToolSet struct {
	tools []RegisteredTool
	index map[string]int
}

// Register validates the catalog, applies the policy to each endpoint in
// order and binds an invocation wrapper to every exposed one. A broken
// catalog (invalid descriptor or duplicate alias) is an error even when the
// offending entry would have been suppressed.
func Register(endpoints []catalog.Endpoint, cfg policy.Config, client Dispatcher, opts ...RegisterOption) (*ToolSet, error) {
	o := registerOptions{logger: common.NewSilentLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := catalog.Validate(endpoints); err != nil {
		return nil, err
	}

	set := &ToolSet{index: make(map[string]int, len(endpoints))}
	suppressed := 0
	for _, ep := range endpoints {
		decision := policy.Decide(ep, cfg)
		if !decision.Expose {
			o.logger.Debug().Str("tool", ep.Alias).Str("method", string(ep.Method)).Str("reason", decision.Reason).Msg("tool suppressed")
			suppressed++
			continue
		}
		if !cfg.Matches(ep.Alias) {
			o.logger.Debug().Str("tool", ep.Alias).Str("pattern", cfg.Pattern()).Msg("tool filtered by enabled-tools pattern")
			suppressed++
			continue
		}

		method := ep.Method.Normalize()
		if method == catalog.MethodDelete {
			panic(fmt.Sprintf("mcp: DELETE endpoint %q reached registration", ep.Alias))
		}

		set.index[ep.Alias] = len(set.tools)
		set.tools = append(set.tools, RegisteredTool{
			Name:     ep.Alias,
			Endpoint: ep,
			Tool:     BuildTool(ep),
			Invoke:   bindInvoker(ep, client),
		})

		o.logger.Info().Str("tool", ep.Alias).Str("method", string(method)).Str("path", ep.Path).Msg("tool registered")
		if o.hook != nil {
			o.hook(RegistrationEvent{Name: ep.Alias, Method: method, Path: ep.Path})
		}
	}

	o.logger.Info().
		Int("registered", len(set.tools)).
		Int("suppressed", suppressed).
		Bool("read_only", cfg.ReadOnly).
		Str("enabled_tools", cfg.Pattern()).
		Msg("tool registration complete")

	return set, nil
}

// Len returns the number of registered tools.
func (s *ToolSet) Len() int { return len(s.tools) }

// Names returns the registered tool names in catalog order.
func (s *ToolSet) Names() []string {
	names := make([]string, len(s.tools))
	for i, t := range s.tools {
		names[i] = t.Name
	}
	return names
}

// Lookup returns the tool registered under name.
func (s *ToolSet) Lookup(name string) (RegisteredTool, bool) {
	i, ok := s.index[name]
	if !ok {
		return RegisteredTool{}, false
	}
	return s.tools[i], true
}

// Invoke calls the tool registered under name.
func (s *ToolSet) Invoke(ctx context.Context, name string, args map[string]any) ([]byte, error) {
	t, ok := s.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.Invoke(ctx, args)
}

// Scopes returns the sorted union of OAuth scopes the registered tools need.
func (s *ToolSet) Scopes() []string {
	eps := make([]catalog.Endpoint, len(s.tools))
	for i, t := range s.tools {
		eps[i] = t.Endpoint
	}
	return catalog.Scopes(eps)
}

// AddTo publishes every tool on srv in catalog order.
func (s *ToolSet) AddTo(srv *server.MCPServer, logger *common.Logger) {
	for _, t := range s.tools {
		srv.AddTool(t.Tool, toolHandler(t.Name, t.Invoke, logger))
	}
}
