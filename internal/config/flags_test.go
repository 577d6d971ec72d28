package config

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestParseFlags_Defaults(t *testing.T) {
	f := mustParse(t)

	if f.ConfigPath != DefaultConfigPath {
		t.Errorf("expected default config path, got %s", f.ConfigPath)
	}
	if f.Changed("config") || f.Changed("read-only") || f.Changed("http") {
		t.Error("expected no flags changed")
	}
	d, err := f.Directive()
	if err != nil || d != DirectiveNone {
		t.Errorf("expected no directive, got %v %v", d, err)
	}
}

func TestParseFlags_Values(t *testing.T) {
	f := mustParse(t, "-v", "--read-only", "--enable-auth-tools", "--enabled-tools", "mail|contact", "--config", "x.toml")

	if !f.Verbose || !f.ReadOnly || !f.EnableAuthTools {
		t.Errorf("expected booleans set, got %+v", f)
	}
	if f.EnabledTools != "mail|contact" || f.ConfigPath != "x.toml" {
		t.Errorf("unexpected string flags %+v", f)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := [][]string{
		{"--no-such-flag"},
		{"positional"},
		{"--http", "70000"},
		{"--http=-1"},
		{"--http=abc"},
	}
	for _, args := range tests {
		if _, err := ParseFlags("safe-email-mcp", args, io.Discard); err == nil {
			t.Errorf("ParseFlags(%v): expected error", args)
		}
	}
}

func TestParseFlags_Help(t *testing.T) {
	var out bytes.Buffer
	_, err := ParseFlags("safe-email-mcp", []string{"--help"}, &out)
	if !errors.Is(err, pflag.ErrHelp) {
		t.Fatalf("expected pflag.ErrHelp, got %v", err)
	}
	if !strings.Contains(out.String(), "--enabled-tools") {
		t.Errorf("expected usage on output, got %q", out.String())
	}
}

func TestDirective(t *testing.T) {
	tests := []struct {
		args []string
		want Directive
	}{
		{[]string{"--login"}, DirectiveLogin},
		{[]string{"--logout"}, DirectiveLogout},
		{[]string{"--verify-login"}, DirectiveVerifyLogin},
		{[]string{"--list-accounts"}, DirectiveListAccounts},
		{[]string{"--select-account", "a.t"}, DirectiveSelectAccount},
		{[]string{"--remove-account", "a.t"}, DirectiveRemoveAccount},
		{[]string{"--login=false"}, DirectiveNone},
		{[]string{"--list-accounts=false", "--logout"}, DirectiveLogout},
		{[]string{"--select-account", "false"}, DirectiveSelectAccount},
		{[]string{"--remove-account=false"}, DirectiveRemoveAccount},
		{[]string{"--login", "--read-only", "--http"}, DirectiveLogin},
	}
	for _, tt := range tests {
		got, err := mustParse(t, tt.args...).Directive()
		if err != nil {
			t.Errorf("%v: unexpected error %v", tt.args, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%v: got %s, want %s", tt.args, got, tt.want)
		}
	}
}

func TestDirective_AccountIDNamedFalse(t *testing.T) {
	f := mustParse(t, "--select-account", "false")
	d, err := f.Directive()
	if err != nil {
		t.Fatalf("Directive: %v", err)
	}
	if d != DirectiveSelectAccount || f.SelectAccount != "false" {
		t.Errorf("expected select-account with id %q, got %s %q", "false", d, f.SelectAccount)
	}
}

func TestDirective_Conflicting(t *testing.T) {
	for _, args := range [][]string{
		{"--login", "--logout"},
		{"--verify-login", "--list-accounts"},
		{"--select-account", "a", "--remove-account", "b"},
	} {
		_, err := mustParse(t, args...).Directive()
		if !errors.Is(err, ErrConflictingDirectives) {
			t.Errorf("%v: expected ErrConflictingDirectives, got %v", args, err)
		}
	}
}

func TestDirective_String(t *testing.T) {
	if DirectiveVerifyLogin.String() != "verify-login" {
		t.Errorf("unexpected name %s", DirectiveVerifyLogin.String())
	}
	if DirectiveNone.String() != "none" {
		t.Errorf("unexpected name %s", DirectiveNone.String())
	}
}
