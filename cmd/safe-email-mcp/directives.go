package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bobmcallan/safe-email-mcp/internal/auth"
	"github.com/bobmcallan/safe-email-mcp/internal/config"
)

// accountManager is the part of auth.Manager the directives use.
type accountManager interface {
	Login(ctx context.Context, prompt func(auth.DeviceCode)) (*auth.Account, error)
	Logout() error
	VerifyLogin(ctx context.Context) (*auth.VerifyResult, error)
	ListAccounts() ([]auth.Account, string, error)
	SelectAccount(id string) error
	RemoveAccount(id string) error
}

// runDirective executes a one-shot action and returns the exit code.
func runDirective(ctx context.Context, d config.Directive, flags *config.Flags, mgr accountManager, stdout, stderr io.Writer) int {
	if err := execDirective(ctx, d, flags, mgr, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func execDirective(ctx context.Context, d config.Directive, flags *config.Flags, mgr accountManager, stdout, stderr io.Writer) error {
	switch d {
	case config.DirectiveLogin:
		acct, err := mgr.Login(ctx, func(dc auth.DeviceCode) {
			fmt.Fprintln(stderr, dc.Message())
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Logged in as %s (%s)\n", displayName(*acct), acct.ID)
		return nil

	case config.DirectiveLogout:
		if err := mgr.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Logged out successfully")
		return nil

	case config.DirectiveVerifyLogin:
		res, err := mgr.VerifyLogin(ctx)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(out))
		if !res.Success {
			return fmt.Errorf("login not verified: %s", res.Message)
		}
		return nil

	case config.DirectiveListAccounts:
		accounts, selected, err := mgr.ListAccounts()
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			fmt.Fprintln(stdout, "No accounts found. Run with --login to add one.")
			return nil
		}
		for _, a := range accounts {
			marker := " "
			if a.ID == selected {
				marker = "*"
			}
			fmt.Fprintf(stdout, "%s %s  %s\n", marker, a.ID, displayName(a))
		}
		return nil

	case config.DirectiveSelectAccount:
		if err := mgr.SelectAccount(flags.SelectAccount); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Selected account %s\n", flags.SelectAccount)
		return nil

	case config.DirectiveRemoveAccount:
		if err := mgr.RemoveAccount(flags.RemoveAccount); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Removed account %s\n", flags.RemoveAccount)
		return nil
	}
	return fmt.Errorf("unknown directive %s", d)
}

func displayName(a auth.Account) string {
	switch {
	case a.Username != "" && a.Name != "":
		return fmt.Sprintf("%s <%s>", a.Name, a.Username)
	case a.Username != "":
		return a.Username
	default:
		return a.Name
	}
}
