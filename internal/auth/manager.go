// Package auth signs the user in to Microsoft Graph with the OAuth 2.0
// device authorization grant and keeps a local cache of accounts.
package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"github.com/bobmcallan/safe-email-mcp/internal/common"
)

// DefaultClientID is the public client registered for this server.
const DefaultClientID = "084a3e9f-a9f4-43f7-89f9-d229cf97853e"

// identityScopes are requested on every login so the token response carries
// an id_token and a refresh token.
var identityScopes = []string{"openid", "profile", "offline_access", "User.Read"}

// Sentinel errors.
var (
	ErrNotLoggedIn    = errors.New("auth: not logged in")
	ErrUnknownAccount = errors.New("auth: unknown account")
)

// Config configures a Manager.
type Config struct {
	ClientID     string
	TenantID     string
	Scopes       []string // Graph scopes of the exposed tools
	CachePath    string
	GraphBaseURL string
	Endpoint     *oauth2.Endpoint // overrides the Azure AD endpoint (tests)
	HTTPClient   *http.Client
}

// DeviceCode is what the user needs to complete a device-code login.
type DeviceCode struct {
	UserCode        string    `json:"user_code"`
	VerificationURI string    `json:"verification_uri"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// Message renders the instruction shown to the user.
func (d DeviceCode) Message() string {
	return fmt.Sprintf("To sign in, use a web browser to open the page %s and enter the code %s to authenticate.",
		d.VerificationURI, d.UserCode)
}

// UserProfile is the subset of /me returned by VerifyLogin.
type UserProfile struct {
	DisplayName       string `json:"displayName"`
	UserPrincipalName string `json:"userPrincipalName"`
	Mail              string `json:"mail,omitempty"`
}

// VerifyResult reports whether the cached credentials work.
type VerifyResult struct {
	Success  bool         `json:"success"`
	Message  string       `json:"message"`
	UserData *UserProfile `json:"userData,omitempty"`
}

// pendingLogin tracks a device-code flow started by StartLogin.
type pendingLogin struct {
	code    DeviceCode
	started bool
	done    bool
	err     error
	account *Account

	ready    chan struct{} // closed once code or err is set by StartLogin
	finished chan struct{} // closed when the background poller exits
	cancel   context.CancelFunc
}

// Manager implements login, logout and account selection over a
// FileAccountStore.
type Manager struct {
	oauth        *oauth2.Config
	store        *FileAccountStore
	graphBaseURL string
	httpClient   *http.Client
	logger       *common.Logger

	mu      sync.Mutex
	pending *pendingLogin
}

// NewManager creates a Manager from cfg.
func NewManager(cfg Config, logger *common.Logger) *Manager {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = DefaultClientID
	}

	endpoint := microsoft.AzureADEndpoint(cfg.TenantID)
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	graphBaseURL := strings.TrimRight(cfg.GraphBaseURL, "/")
	if graphBaseURL == "" {
		graphBaseURL = "https://graph.microsoft.com/v1.0"
	}

	return &Manager{
		oauth: &oauth2.Config{
			ClientID: clientID,
			Endpoint: endpoint,
			Scopes:   mergeScopes(identityScopes, cfg.Scopes),
		},
		store:        NewFileAccountStore(cfg.CachePath),
		graphBaseURL: graphBaseURL,
		httpClient:   httpClient,
		logger:       logger,
	}
}

// Scopes returns the scopes requested at login.
func (m *Manager) Scopes() []string {
	return append([]string(nil), m.oauth.Scopes...)
}

func (m *Manager) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
}

// Login runs the device-code flow to completion. prompt is called once with
// the code the user must enter.
func (m *Manager) Login(ctx context.Context, prompt func(DeviceCode)) (*Account, error) {
	octx := m.oauthContext(ctx)
	da, err := m.oauth.DeviceAuth(octx)
	if err != nil {
		return nil, fmt.Errorf("device authorization: %w", err)
	}
	prompt(deviceCodeFrom(da))

	tok, err := m.oauth.DeviceAccessToken(octx, da)
	if err != nil {
		return nil, fmt.Errorf("device token: %w", err)
	}
	return m.completeLogin(tok)
}

// StartLogin begins a device-code flow and returns immediately with the
// code. Polling continues in the background until the code expires; the
// outcome is reported by VerifyLogin. A flow already in progress, or one
// being started by a concurrent call, is reused.
func (m *Manager) StartLogin(ctx context.Context) (DeviceCode, error) {
	m.mu.Lock()
	if p := m.pending; p != nil && !p.done && (!p.started || time.Now().Before(p.code.ExpiresAt)) {
		m.mu.Unlock()
		select {
		case <-p.ready:
		case <-ctx.Done():
			return DeviceCode{}, ctx.Err()
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		if !p.started {
			return DeviceCode{}, p.err
		}
		return p.code, nil
	}
	// Detached from ctx: the tool call returns before the user finishes.
	pollCtx, cancel := context.WithCancel(context.Background())
	p := &pendingLogin{
		ready:    make(chan struct{}),
		finished: make(chan struct{}),
		cancel:   cancel,
	}
	if prev := m.pending; prev != nil {
		prev.cancel()
	}
	m.pending = p
	m.mu.Unlock()

	da, err := m.oauth.DeviceAuth(m.oauthContext(ctx))
	if err != nil {
		err = fmt.Errorf("device authorization: %w", err)
		cancel()
		m.mu.Lock()
		p.done = true
		p.err = err
		if m.pending == p {
			m.pending = nil
		}
		m.mu.Unlock()
		close(p.ready)
		close(p.finished)
		return DeviceCode{}, err
	}

	code := deviceCodeFrom(da)
	m.mu.Lock()
	p.code = code
	p.started = true
	m.mu.Unlock()
	close(p.ready)

	go m.pollLogin(pollCtx, p, da)

	return code, nil
}

// pollLogin waits for the user to finish p. The account is stored only
// while p is still the current flow, so a Logout in between wins.
func (m *Manager) pollLogin(ctx context.Context, p *pendingLogin, da *oauth2.DeviceAuthResponse) {
	defer close(p.finished)
	defer p.cancel()

	tok, err := m.oauth.DeviceAccessToken(m.oauthContext(ctx), da)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending != p {
		m.logger.Debug().Msg("device-code login abandoned")
		return
	}

	var acct *Account
	if err == nil {
		acct, err = m.completeLogin(tok)
	}
	if err != nil {
		m.logger.Warn().Str("error", err.Error()).Msg("device-code login failed")
	}
	p.done = true
	p.err = err
	p.account = acct
}

// completeLogin stores the account derived from tok and selects it.
func (m *Manager) completeLogin(tok *oauth2.Token) (*Account, error) {
	acct := accountFromToken(tok)
	if err := m.store.Put(acct, true); err != nil {
		return nil, fmt.Errorf("saving account: %w", err)
	}
	m.logger.Info().Str("account", acct.ID).Str("username", acct.Username).Msg("login complete")
	return acct, nil
}

// Logout clears every cached account and abandons a pending device-code
// flow.
func (m *Manager) Logout() error {
	m.mu.Lock()
	if p := m.pending; p != nil {
		p.cancel()
		m.pending = nil
	}
	m.mu.Unlock()
	return m.store.Clear()
}

// ListAccounts returns cached accounts and the selected account id.
// Tokens are stripped.
func (m *Manager) ListAccounts() ([]Account, string, error) {
	accounts, selected, err := m.store.List()
	if err != nil {
		return nil, "", err
	}
	for i := range accounts {
		accounts[i].Token = nil
	}
	return accounts, selected, nil
}

// SelectAccount makes id the account used for Graph calls.
func (m *Manager) SelectAccount(id string) error {
	return m.store.Select(id)
}

// RemoveAccount deletes id from the cache.
func (m *Manager) RemoveAccount(id string) error {
	return m.store.Remove(id)
}

// IsLoggedIn reports whether a selected account with a token exists.
func (m *Manager) IsLoggedIn() bool {
	_, err := m.store.Selected()
	return err == nil
}

// AccessToken returns a valid access token for the selected account,
// persisting it when the oauth2 token source refreshed it.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	acct, err := m.store.Selected()
	if err != nil {
		return "", err
	}

	tok, err := m.oauth.TokenSource(m.oauthContext(ctx), acct.Token).Token()
	if err != nil {
		return "", fmt.Errorf("token for %s: %w", acct.Username, err)
	}
	if tok.AccessToken != acct.Token.AccessToken {
		if err := m.store.UpdateToken(acct.ID, tok); err != nil {
			m.logger.Warn().Str("error", err.Error()).Msg("failed to persist refreshed token")
		}
	}
	return tok.AccessToken, nil
}

// VerifyLogin calls /me with the selected account. A login started with
// StartLogin that is still waiting for the user is reported as such.
func (m *Manager) VerifyLogin(ctx context.Context) (*VerifyResult, error) {
	m.mu.Lock()
	p := m.pending
	var inProgress string
	var pendingErr error
	if p != nil {
		if !p.done {
			inProgress = "Login in progress."
			if p.started {
				inProgress += " " + p.code.Message()
			}
		} else {
			pendingErr = p.err
		}
	}
	m.mu.Unlock()

	token, err := m.AccessToken(ctx)
	if err != nil {
		if errors.Is(err, ErrNotLoggedIn) {
			switch {
			case inProgress != "":
				return &VerifyResult{Message: inProgress}, nil
			case pendingErr != nil:
				return &VerifyResult{Message: "Login failed: " + pendingErr.Error()}, nil
			}
			return &VerifyResult{Message: "Not logged in"}, nil
		}
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.graphBaseURL+"/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify login: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("verify login: %w", err)
	}
	if resp.StatusCode >= 400 {
		return &VerifyResult{Message: fmt.Sprintf("Graph rejected the cached credentials (%d)", resp.StatusCode)}, nil
	}

	var profile UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("verify login: parse /me: %w", err)
	}
	return &VerifyResult{Success: true, Message: "Login verified", UserData: &profile}, nil
}

func deviceCodeFrom(da *oauth2.DeviceAuthResponse) DeviceCode {
	uri := da.VerificationURI
	if uri == "" {
		uri = da.VerificationURIComplete
	}
	return DeviceCode{UserCode: da.UserCode, VerificationURI: uri, ExpiresAt: da.Expiry}
}

// idClaims is the subset of id_token claims used to identify an account.
type idClaims struct {
	OID               string `json:"oid"`
	TID               string `json:"tid"`
	Sub               string `json:"sub"`
	PreferredUsername string `json:"preferred_username"`
	Name              string `json:"name"`
}

// accountFromToken derives the account identity from the id_token. The
// token came straight from the token endpoint over TLS, so the signature
// is not checked here.
func accountFromToken(tok *oauth2.Token) *Account {
	var claims idClaims
	if raw, ok := tok.Extra("id_token").(string); ok {
		claims = decodeIDClaims(raw)
	}

	id := claims.OID
	if id == "" {
		id = claims.Sub
	}
	if id == "" {
		id = "default"
	}
	if claims.TID != "" {
		id += "." + claims.TID
	}

	return &Account{
		ID:       id,
		Username: claims.PreferredUsername,
		Name:     claims.Name,
		TenantID: claims.TID,
		Token:    tok,
	}
}

// decodeIDClaims base64url-decodes the JWT payload. Returns zero claims on
// any failure.
func decodeIDClaims(token string) idClaims {
	var claims idClaims
	parts := strings.SplitN(token, ".", 3)
	if len(parts) < 2 {
		return claims
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return claims
	}
	_ = json.Unmarshal(payload, &claims)
	return claims
}

// mergeScopes returns base followed by the extra scopes not already present.
func mergeScopes(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, s := range list {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
