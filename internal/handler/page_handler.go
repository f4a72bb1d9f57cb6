package handler

import (
	"net/http"

	"harapan-web/internal/container"
	"harapan-web/internal/domain"
	"harapan-web/internal/middleware"
	"harapan-web/internal/nav"
	"harapan-web/internal/ui"
	"harapan-web/pkg/errors"
	"harapan-web/web"
)

// PageHandler renders the public pages
type PageHandler struct {
	container *container.Container
	page      web.HomePage
}

// NewPageHandler creates a new page handler
func NewPageHandler(container *container.Container) *PageHandler {
	return &PageHandler{
		container: container,
		page:      web.DefaultHomePage(),
	}
}

// Home handles GET /. It runs behind OptionalSession, so the auth regions are
// rendered for the session user when there is one. ?menu=open serves the
// mobile menu already open for clients without scripts.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	doc, err := web.HomeDocument(h.page)
	if err != nil {
		middleware.WriteError(w, r, errors.NewInternalError("Failed to render page", err), logger)
		return
	}

	var user *domain.SessionUser
	if session, ok := middleware.SessionFromContext(r.Context()); ok {
		user = &session.User
	}
	ui.UpdateAuthUI(doc, user)
	if r.URL.Query().Get("menu") == "open" {
		nav.Attach(doc).ToggleMenu()
	}

	html, err := doc.Html()
	if err != nil {
		middleware.WriteError(w, r, errors.NewInternalError("Failed to render page", err), logger)
		return
	}
	h.container.Metrics.RecordPageRender(user != nil)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		logger.WithError(err).Debug("Failed to write page")
	}
}
