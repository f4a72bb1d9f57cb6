package ui

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"harapan-web/internal/domain"
)

// Element IDs of the auth regions
const (
	AuthButtonID = "authButton"
	UserInfoID   = "userInfo"
)

// ApplyAuthView writes v into doc. It returns false without touching the
// document when either auth region is missing.
func ApplyAuthView(doc *goquery.Document, v AuthView) bool {
	if doc == nil {
		return false
	}
	authBtn := doc.Find("#" + AuthButtonID).First()
	userInfo := doc.Find("#" + UserInfoID).First()
	if authBtn.Length() == 0 || userInfo.Length() == 0 {
		return false
	}

	SetDisplay(authBtn, v.AuthButtonDisplay)
	SetDisplay(userInfo, v.UserInfoDisplay)
	if v.SignedIn {
		userInfo.SetHtml(v.ProfileHTML())
	}
	return true
}

// UpdateAuthUI renders user into the auth regions of doc
func UpdateAuthUI(doc *goquery.Document, user *domain.SessionUser) bool {
	return ApplyAuthView(doc, ComputeAuthView(user))
}

// SetDisplay sets the display property in sel's inline style, keeping any
// other declarations in place.
func SetDisplay(sel *goquery.Selection, display string) {
	style, _ := sel.Attr("style")
	decls := make([]string, 0, 4)
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, _, _ := strings.Cut(decl, ":")
		if strings.EqualFold(strings.TrimSpace(name), "display") {
			continue
		}
		decls = append(decls, decl)
	}
	decls = append(decls, "display: "+display)
	sel.SetAttr("style", strings.Join(decls, "; "))
}

// Display reads the display property from sel's inline style
func Display(sel *goquery.Selection) string {
	style, _ := sel.Attr("style")
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), "display") {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// DocumentRenderer renders auth state into a shared document
type DocumentRenderer struct {
	mu  sync.Mutex
	doc *goquery.Document
}

// NewDocumentRenderer wraps doc
func NewDocumentRenderer(doc *goquery.Document) *DocumentRenderer {
	return &DocumentRenderer{doc: doc}
}

// Render implements bridge.Renderer
func (r *DocumentRenderer) Render(user *domain.SessionUser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	UpdateAuthUI(r.doc, user)
}

// HTML serializes the current document
func (r *DocumentRenderer) HTML() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.Html()
}
