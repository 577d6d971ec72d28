package config

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// ErrConflictingDirectives reports more than one one-shot directive.
var ErrConflictingDirectives = errors.New("config: conflicting directives")

// Directive is a one-shot action that runs instead of the server.
type Directive int

const (
	DirectiveNone Directive = iota
	DirectiveLogin
	DirectiveLogout
	DirectiveVerifyLogin
	DirectiveListAccounts
	DirectiveSelectAccount
	DirectiveRemoveAccount
)

var directiveFlags = []struct {
	name      string
	directive Directive
}{
	{"login", DirectiveLogin},
	{"logout", DirectiveLogout},
	{"verify-login", DirectiveVerifyLogin},
	{"list-accounts", DirectiveListAccounts},
	{"select-account", DirectiveSelectAccount},
	{"remove-account", DirectiveRemoveAccount},
}

// String returns the flag name of the directive.
func (d Directive) String() string {
	for _, df := range directiveFlags {
		if df.directive == d {
			return df.name
		}
	}
	return "none"
}

// Flags holds the parsed command line.
type Flags struct {
	Verbose bool
	Version bool

	Login         bool
	Logout        bool
	VerifyLogin   bool
	ListAccounts  bool
	SelectAccount string
	RemoveAccount string

	ReadOnly        bool
	HTTPPort        int // 0 when --http is given without a port
	EnableAuthTools bool
	EnabledTools    string
	ConfigPath      string

	fs *pflag.FlagSet
}

// ParseFlags parses args (without the program name). Help output goes to
// out; a help request returns pflag.ErrHelp.
func ParseFlags(name string, args []string, out io.Writer) (*Flags, error) {
	f := &Flags{}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.SortFlags = false

	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "Enable verbose logging")
	fs.BoolVar(&f.Login, "login", false, "Login using device code flow")
	fs.BoolVar(&f.Logout, "logout", false, "Log out and clear saved credentials")
	fs.BoolVar(&f.VerifyLogin, "verify-login", false, "Verify login without starting the server")
	fs.BoolVar(&f.ListAccounts, "list-accounts", false, "List all cached accounts")
	fs.StringVar(&f.SelectAccount, "select-account", "", "Select a specific account by ID")
	fs.StringVar(&f.RemoveAccount, "remove-account", "", "Remove a specific account by ID")
	fs.BoolVar(&f.ReadOnly, "read-only", false, "Start server in read-only mode, disabling write operations")
	fs.IntVar(&f.HTTPPort, "http", 0, fmt.Sprintf("Use Streamable HTTP transport instead of stdio (optionally specify port, default: %d)", DefaultHTTPPort))
	fs.BoolVar(&f.EnableAuthTools, "enable-auth-tools", false, "Enable login/logout tools when using HTTP mode (disabled by default in HTTP mode)")
	fs.StringVar(&f.EnabledTools, "enabled-tools", "", "Filter tools using regex pattern (e.g., \"mail|contact\")")
	fs.StringVar(&f.ConfigPath, "config", DefaultConfigPath, "Path to TOML config file")
	fs.BoolVar(&f.Version, "version", false, "Print version and exit")

	fs.Lookup("http").NoOptDefVal = "0"

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	rest := fs.Args()
	// "--http 8080": pflag only binds "--http=8080" for optional values.
	if fs.Changed("http") && f.HTTPPort == 0 && len(rest) > 0 {
		if p, err := strconv.Atoi(rest[0]); err == nil {
			f.HTTPPort = p
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(rest, " "))
	}
	if f.HTTPPort < 0 || f.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid --http port %d", f.HTTPPort)
	}

	f.fs = fs
	return f, nil
}

// Changed reports whether the named flag was passed on the command line.
func (f *Flags) Changed(name string) bool {
	if f == nil || f.fs == nil {
		return false
	}
	return f.fs.Changed(name)
}

// Directive returns the single one-shot directive requested, or
// DirectiveNone. More than one is ErrConflictingDirectives. "--login=false"
// requests nothing; an account id is taken as given, even "false".
func (f *Flags) Directive() (Directive, error) {
	var found []string
	result := DirectiveNone
	for _, df := range directiveFlags {
		if !f.Changed(df.name) {
			continue
		}
		v := f.fs.Lookup(df.name).Value
		if v.Type() == "bool" && v.String() == "false" {
			continue
		}
		found = append(found, "--"+df.name)
		result = df.directive
	}
	if len(found) > 1 {
		return DirectiveNone, fmt.Errorf("%w: %s", ErrConflictingDirectives, strings.Join(found, ", "))
	}
	return result, nil
}
