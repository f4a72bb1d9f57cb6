package bridge

import (
	"context"

	"harapan-web/internal/domain"
)

// Provider is the identity provider the bridge mirrors
type Provider interface {
	// Subscribe registers fn for every sign-in state change and returns a
	// function that removes it
	Subscribe(fn func(domain.AuthEvent)) func()

	// SignInWithPopup runs the interactive sign-in flow
	SignInWithPopup(ctx context.Context) (*domain.SessionUser, error)

	// SignOut ends the provider session
	SignOut(ctx context.Context) error
}

// Notifier forwards sign-in state to the backend session endpoint
type Notifier interface {
	NotifyLogin(ctx context.Context, user *domain.SessionUser) error
	NotifyLogout(ctx context.Context) error
}

type nopNotifier struct{}

func (nopNotifier) NotifyLogin(context.Context, *domain.SessionUser) error { return nil }
func (nopNotifier) NotifyLogout(context.Context) error                     { return nil }

// Renderer shows the current sign-in state
type Renderer interface {
	Render(user *domain.SessionUser)
}

// Alerter surfaces a message to the user and blocks until acknowledged
type Alerter interface {
	Alert(message string)
}

// Reloader restarts the host page after sign-out
type Reloader interface {
	Reload()
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(user *domain.SessionUser)

// Render implements Renderer
func (f RendererFunc) Render(user *domain.SessionUser) { f(user) }

// AlerterFunc adapts a function to Alerter
type AlerterFunc func(message string)

// Alert implements Alerter
func (f AlerterFunc) Alert(message string) { f(message) }

// ReloaderFunc adapts a function to Reloader
type ReloaderFunc func()

// Reload implements Reloader
func (f ReloaderFunc) Reload() { f() }
