// Package google is the Google identity provider used by terminal hosts. It
// signs in through a loopback OAuth2 authorization-code flow and keeps the
// signed-in user in the OS credential store.
package google

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/99designs/keyring"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"harapan-web/internal/domain"
	"harapan-web/pkg/logger"
)

// ServiceName is the credential store namespace
const ServiceName = "harapan"

// KeyAuthState is the credential store key of the persisted sign-in state
const KeyAuthState = "google_auth_state"

const callbackPath = "/callback"

var (
	// ErrStateMismatch is returned when the callback's state does not match the request
	ErrStateMismatch = stderrors.New("oauth state mismatch")
	// ErrMissingCode is returned when the callback carries no authorization code
	ErrMissingCode = stderrors.New("authorization code missing from callback")
)

// Opener hands the authorization URL to the user, usually by opening a browser
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to Opener
type OpenerFunc func(url string) error

// Open implements Opener
func (f OpenerFunc) Open(url string) error { return f(url) }

// BrowserOpener opens url in the default browser
var BrowserOpener = OpenerFunc(func(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
})

// Config configures a Provider
type Config struct {
	ClientID     string
	ClientSecret string
	Scopes       []string

	// Endpoint defaults to Google's OAuth2 endpoint
	Endpoint oauth2.Endpoint
	// UserInfoEndpoint overrides the base URL of the userinfo API
	UserInfoEndpoint string
	// HTTPClient is used for the token exchange and the userinfo call
	HTTPClient *http.Client

	Keyring keyring.Keyring
	Opener  Opener
	Logger  *logger.Logger
}

// storedState is what the credential store holds between runs
type storedState struct {
	Token *oauth2.Token      `json:"token"`
	User  domain.SessionUser `json:"user"`
}

type listener struct {
	id int
	fn func(domain.AuthEvent)
}

// Provider implements bridge.Provider for Google accounts
type Provider struct {
	cfg   Config
	oauth oauth2.Config
	log   *logger.Logger

	mu        sync.Mutex
	user      *domain.SessionUser
	listeners []listener
	nextID    int
}

// New creates a Provider. ClientID and Keyring are required.
func New(cfg Config) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("google client ID is required")
	}
	if cfg.Keyring == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if cfg.Opener == nil {
		cfg.Opener = BrowserOpener
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Endpoint.AuthURL == "" {
		cfg.Endpoint = googleoauth.Endpoint
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"openid", oauth2api.UserinfoEmailScope, oauth2api.UserinfoProfileScope}
	}

	return &Provider{
		cfg: cfg,
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     cfg.Endpoint,
			Scopes:       cfg.Scopes,
		},
		log: cfg.Logger.WithField("provider", "google"),
	}, nil
}

// OpenKeyring opens the OS credential store under ServiceName
func OpenKeyring() (keyring.Keyring, error) {
	return keyring.Open(keyring.Config{
		ServiceName:   ServiceName,
		PassPrefix:    ServiceName,
		WinCredPrefix: ServiceName,
	})
}

// Subscribe registers fn for sign-in state changes and returns its
// unsubscribe function
func (p *Provider) Subscribe(fn func(domain.AuthEvent)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners = append(p.listeners, listener{id: id, fn: fn})
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, l := range p.listeners {
			if l.id == id {
				p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
				return
			}
		}
	}
}

// CurrentUser returns the signed-in user, or nil
func (p *Provider) CurrentUser() *domain.SessionUser {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.user
}

// Restore loads the persisted user and publishes the initial sign-in state
func (p *Provider) Restore(ctx context.Context) (*domain.SessionUser, error) {
	state, err := p.load()
	if err != nil {
		p.setUser(nil)
		return nil, err
	}
	if state == nil {
		p.setUser(nil)
		return nil, nil
	}

	user := state.User
	p.log.WithField("user_id", user.UID).Debug("Restored persisted sign-in")
	p.setUser(&user)
	return &user, nil
}

// SignInWithPopup runs the loopback authorization-code flow. Subscribers see
// the SignedIn event before it returns.
func (p *Provider) SignInWithPopup(ctx context.Context) (*domain.SessionUser, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to start callback listener: %w", err)
	}

	conf := p.oauth
	conf.RedirectURL = fmt.Sprintf("http://%s%s", ln.Addr().String(), callbackPath)
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackHandler(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			p.log.WithError(err).Warn("Callback listener stopped")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))
	if err := p.cfg.Opener.Open(authURL); err != nil {
		return nil, fmt.Errorf("failed to open sign-in page: %w", err)
	}

	var result callbackResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result = <-results:
	}
	if result.err != nil {
		return nil, result.err
	}

	ctx = p.clientContext(ctx)
	token, err := conf.Exchange(ctx, result.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	user, err := p.fetchUser(ctx, conf.TokenSource(ctx, token))
	if err != nil {
		return nil, err
	}

	if err := p.save(&storedState{Token: token, User: *user}); err != nil {
		p.log.WithError(err).Warn("Failed to persist sign-in, it will not survive a restart")
	}

	p.log.WithField("user_id", user.UID).Info("Signed in with Google")
	p.setUser(user)
	return user, nil
}

// SignOut forgets the persisted sign-in and publishes SignedOut
func (p *Provider) SignOut(ctx context.Context) error {
	if err := p.cfg.Keyring.Remove(KeyAuthState); err != nil && !stderrors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to clear credential store: %w", err)
	}
	p.setUser(nil)
	return nil
}

func (p *Provider) setUser(user *domain.SessionUser) {
	p.mu.Lock()
	p.user = user
	listeners := make([]listener, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	event := domain.EventFor(user)
	for _, l := range listeners {
		l.fn(event)
	}
}

func (p *Provider) clientContext(ctx context.Context) context.Context {
	if p.cfg.HTTPClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, p.cfg.HTTPClient)
}

func (p *Provider) fetchUser(ctx context.Context, ts oauth2.TokenSource) (*domain.SessionUser, error) {
	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, ts))}
	if p.cfg.UserInfoEndpoint != "" {
		opts = append(opts, option.WithEndpoint(p.cfg.UserInfoEndpoint))
	}

	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read Google profile: %w", err)
	}
	if info.Id == "" || info.Email == "" {
		return nil, fmt.Errorf("google profile is missing id or email")
	}

	return &domain.SessionUser{
		UID:         info.Id,
		Email:       info.Email,
		DisplayName: domain.StringPtr(info.Name),
		PhotoURL:    domain.StringPtr(info.Picture),
	}, nil
}

func (p *Provider) load() (*storedState, error) {
	item, err := p.cfg.Keyring.Get(KeyAuthState)
	if stderrors.Is(err, keyring.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential store: %w", err)
	}

	var state storedState
	if err := json.Unmarshal(item.Data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode persisted sign-in: %w", err)
	}
	if state.User.UID == "" {
		return nil, nil
	}
	return &state, nil
}

func (p *Provider) save(state *storedState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return p.cfg.Keyring.Set(keyring.Item{
		Key:         KeyAuthState,
		Data:        data,
		Label:       "Harapan Google sign-in",
		Description: "Signed-in Google account for the harapan CLI",
	})
}
