package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pterm/pterm"

	"harapan-web/internal/bridge"
	"harapan-web/internal/domain"
	"harapan-web/internal/ui"
)

// TerminalView is the terminal counterpart of the page's auth regions. Render
// updates the view model; Show paints it.
type TerminalView struct {
	mu   sync.Mutex
	out  io.Writer
	view ui.AuthView
}

// NewTerminalView creates a signed-out view writing to out
func NewTerminalView(out io.Writer) *TerminalView {
	return &TerminalView{out: out, view: ui.ComputeAuthView(nil)}
}

// Render implements bridge.Renderer
func (t *TerminalView) Render(user *domain.SessionUser) {
	view := ui.ComputeAuthView(user)
	t.mu.Lock()
	t.view = view
	t.mu.Unlock()
}

// View returns the current view model
func (t *TerminalView) View() ui.AuthView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view
}

// Show writes the current view to the terminal
func (t *TerminalView) Show() {
	view := t.View()
	if !view.SignedIn {
		fmt.Fprintln(t.out, pterm.Info.Sprint("Belum login. Jalankan `harapan login` untuk masuk dengan Google."))
		return
	}

	title := pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint("Akun")
	details := fmt.Sprintf("Masuk sebagai %s\nFoto: %s", view.Label, view.PhotoURL)
	fmt.Fprintln(t.out, pterm.DefaultBox.WithTitle(title).WithPadding(1).Sprint(details))
}

// TerminalAlerter prints bridge alerts. Sign-in failures are shown as errors,
// everything else as warnings.
type TerminalAlerter struct {
	out io.Writer
}

// NewTerminalAlerter creates an alerter writing to out
func NewTerminalAlerter(out io.Writer) *TerminalAlerter {
	return &TerminalAlerter{out: out}
}

// Alert implements bridge.Alerter
func (a *TerminalAlerter) Alert(message string) {
	if strings.HasPrefix(message, bridge.SignInFailedPrefix) {
		fmt.Fprintln(a.out, pterm.Error.Sprint(message))
		return
	}
	fmt.Fprintln(a.out, pterm.Warning.Sprint(message))
}
