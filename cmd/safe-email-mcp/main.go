// Command safe-email-mcp exposes Microsoft Graph mail, contacts and profile
// endpoints as MCP tools. Delete operations are never exposed.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/safe-email-mcp/internal/auth"
	"github.com/bobmcallan/safe-email-mcp/internal/catalog"
	"github.com/bobmcallan/safe-email-mcp/internal/common"
	"github.com/bobmcallan/safe-email-mcp/internal/config"
	"github.com/bobmcallan/safe-email-mcp/internal/graph"
	"github.com/bobmcallan/safe-email-mcp/internal/mcp"
	"github.com/bobmcallan/safe-email-mcp/internal/policy"
	"github.com/bobmcallan/safe-email-mcp/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app is everything built during startup, before any transport serves.
type app struct {
	cfg    *config.Config
	policy policy.Config
	tools  *mcp.ToolSet
	auth   *auth.Manager
	logger *common.Logger
}

// run is main without os.Exit. stdout carries MCP traffic in stdio mode and
// directive output otherwise; diagnostics go to stderr.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, err := config.ParseFlags("safe-email-mcp", args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if flags.Version {
		fmt.Fprintf(stdout, "%s %s\n", mcp.ServerName, config.GetFullVersion())
		return 0
	}

	directive, err := flags.Directive()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	a, err := setup(flags)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if directive != config.DirectiveNone {
		return runDirective(ctx, directive, flags, a.auth, stdout, stderr)
	}

	if err := serve(ctx, a, stdin, stdout); err != nil {
		a.logger.Error().Str("error", err.Error()).Msg("server stopped with error")
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// setup resolves configuration and registers the tools. Any error here is
// fatal before a transport starts.
func setup(flags *config.Flags) (*app, error) {
	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)

	pol, err := cfg.ExposurePolicy()
	if err != nil {
		return nil, err
	}

	// The manager needs the scopes of the registered tools, and the Graph
	// client needs the manager for tokens: bind it late.
	var mgr *auth.Manager
	tokens := graph.TokenProviderFunc(func(ctx context.Context) (string, error) {
		return mgr.AccessToken(ctx)
	})
	client := graph.NewClient(tokens, logger,
		graph.WithBaseURL(cfg.Graph.BaseURL),
		graph.WithTimeout(cfg.Graph.Timeout()),
	)

	set, err := mcp.Register(catalog.Endpoints, pol, client, mcp.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("tool registration: %w", err)
	}

	mgr = auth.NewManager(auth.Config{
		ClientID:     cfg.Auth.ClientID,
		TenantID:     cfg.Auth.TenantID,
		Scopes:       set.Scopes(),
		CachePath:    cfg.Auth.TokenCache,
		GraphBaseURL: cfg.Graph.BaseURL,
	}, logger)

	logger.Info().
		Str("version", config.GetFullVersion()).
		Str("transport", string(pol.Transport)).
		Bool("read_only", pol.ReadOnly).
		Str("enabled_tools", pol.Pattern()).
		Int("tools", set.Len()).
		Strs("scopes", mgr.Scopes()).
		Msg("configuration loaded")

	return &app{cfg: cfg, policy: pol, tools: set, auth: mgr, logger: logger}, nil
}

// serve publishes the tools on the configured transport until ctx is done.
func serve(ctx context.Context, a *app, stdin io.Reader, stdout io.Writer) error {
	mcpSrv := mcp.NewServer(a.tools, a.policy, a.auth, config.GetVersionInfo().Version, a.logger)

	if a.policy.Transport == policy.TransportStdio {
		stdio := mcpserver.NewStdioServer(mcpSrv)
		stdio.SetErrorLogger(log.New(os.Stderr, "", log.LstdFlags))
		a.logger.Info().Msg("serving MCP over stdio")
		if err := stdio.Listen(ctx, stdin, stdout); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	httpSrv := server.New(mcpSrv, a.cfg.Addr(), a.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpSrv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
