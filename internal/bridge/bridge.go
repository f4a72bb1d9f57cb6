// Package bridge mirrors an identity provider's sign-in state into the page:
// the local session state, the rendered auth regions and the backend session.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"harapan-web/internal/authstate"
	"harapan-web/internal/domain"
	"harapan-web/pkg/logger"
)

// User-facing alert texts
const (
	SignInFailedPrefix   = "Login gagal: "
	LoginRequiredMessage = "Silakan login terlebih dahulu untuk melakukan booking"
)

const notifyTimeout = 10 * time.Second

var (
	// ErrProviderSignOut marks a sign-out that failed at the identity provider
	ErrProviderSignOut = errors.New("provider sign-out failed")
	// ErrBackendLogout marks a sign-out that failed at the backend session endpoint
	ErrBackendLogout = errors.New("backend logout failed")
	// ErrNoUser is reported when a provider completes sign-in without a user
	ErrNoUser = errors.New("sign-in returned no user")
)

// Options holds the optional collaborators of a Bridge
type Options struct {
	State    *authstate.Store
	Renderer Renderer
	Alerter  Alerter
	Reloader Reloader
	Logger   *logger.Logger
}

// Bridge keeps the session state, the UI and the backend session in step with
// the identity provider
type Bridge struct {
	provider Provider
	notifier Notifier
	state    *authstate.Store
	renderer Renderer
	alerter  Alerter
	reloader Reloader
	logger   *logger.Logger

	mu      sync.Mutex
	pending sync.WaitGroup

	subMu       sync.Mutex
	unsubscribe func()
}

// New creates a bridge. A nil notifier and missing options fall back to
// no-ops and a fresh store.
func New(provider Provider, notifier Notifier, opts Options) *Bridge {
	b := &Bridge{
		provider: provider,
		notifier: notifier,
		state:    opts.State,
		renderer: opts.Renderer,
		alerter:  opts.Alerter,
		reloader: opts.Reloader,
		logger:   opts.Logger,
	}
	if b.notifier == nil {
		b.notifier = nopNotifier{}
	}
	if b.state == nil {
		b.state = authstate.NewStore()
	}
	if b.renderer == nil {
		b.renderer = RendererFunc(func(*domain.SessionUser) {})
	}
	if b.alerter == nil {
		b.alerter = AlerterFunc(func(string) {})
	}
	if b.reloader == nil {
		b.reloader = ReloaderFunc(func() {})
	}
	if b.logger == nil {
		b.logger = logger.Nop()
	}
	return b
}

// Start subscribes the bridge to the provider's state changes
func (b *Bridge) Start() {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	if b.unsubscribe != nil {
		return
	}
	b.unsubscribe = b.provider.Subscribe(b.HandleStateChange)
}

// Stop unsubscribes from the provider and waits for outstanding notifications
func (b *Bridge) Stop() {
	b.subMu.Lock()
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.subMu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	b.Wait()
}

// Wait blocks until every login notification issued so far has completed
func (b *Bridge) Wait() {
	b.pending.Wait()
}

// State returns the session-state holder mirrored by the bridge
func (b *Bridge) State() *authstate.Store {
	return b.state
}

// CurrentUser returns the mirrored user, or nil when signed out
func (b *Bridge) CurrentUser() *domain.SessionUser {
	return b.state.Get()
}

// HandleStateChange mirrors event locally, re-renders, and notifies the
// backend of a sign-in without waiting for the result. A SignedIn event for
// the user already mirrored is a duplicate and is dropped.
func (b *Bridge) HandleStateChange(event domain.AuthEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	user := event.User
	if event.Kind == domain.SignedOut {
		user = nil
	}
	if user != nil && user.SameIdentity(b.state.Get()) {
		b.logger.WithField("uid", user.UID).Debug("Ignoring duplicate sign-in event")
		return
	}

	b.state.Set(user)
	b.renderer.Render(user)

	if user != nil {
		b.notifyLogin(user)
	}
}

func (b *Bridge) notifyLogin(user *domain.SessionUser) {
	b.pending.Add(1)
	go func() {
		defer b.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := b.notifier.NotifyLogin(ctx, user); err != nil {
			b.logger.WithError(err).WithField("uid", user.UID).Warn("Backend login notification failed")
			return
		}
		b.logger.WithField("uid", user.UID).Debug("Backend login notification sent")
	}()
}

// SignInWithGoogle runs the provider's interactive sign-in. On failure the
// user is alerted and nil is returned.
func (b *Bridge) SignInWithGoogle(ctx context.Context) *domain.SessionUser {
	user, err := b.provider.SignInWithPopup(ctx)
	if err == nil && user == nil {
		err = ErrNoUser
	}
	if err != nil {
		b.logger.WithError(err).Error("Sign in error")
		b.alerter.Alert(SignInFailedPrefix + err.Error())
		return nil
	}

	b.logger.WithField("email", user.Email).Info("Signed in")

	// the provider may resolve before its observer fires
	b.HandleStateChange(domain.SignedInEvent(user))
	return user
}

// SignOut signs out at the provider, then at the backend, then reloads the
// host. Any failure is logged and returned, and the reload is skipped.
// Login notifications still in flight finish before the backend logout, so
// the session they open is the one that gets revoked.
func (b *Bridge) SignOut(ctx context.Context) error {
	if err := b.provider.SignOut(ctx); err != nil {
		b.logger.WithError(err).Error("Sign out error")
		return fmt.Errorf("%w: %w", ErrProviderSignOut, err)
	}

	b.Wait()

	if err := b.notifier.NotifyLogout(ctx); err != nil {
		b.logger.WithError(err).Error("Sign out error")
		return fmt.Errorf("%w: %w", ErrBackendLogout, err)
	}

	b.logger.Info("Signed out")
	b.reloader.Reload()
	return nil
}

// RequireAuth runs callback right away when a user is signed in. Otherwise it
// asks the user to sign in and runs callback only if that succeeds.
func (b *Bridge) RequireAuth(ctx context.Context, callback func()) {
	if b.state.SignedIn() {
		callback()
		return
	}

	b.alerter.Alert(LoginRequiredMessage)
	b.SignInWithGoogle(ctx)
	if b.state.SignedIn() {
		callback()
	}
}
