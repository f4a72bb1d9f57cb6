// Package ui derives the auth regions of a page from the sign-in state and
// applies them to an HTML document.
//
// The derivation (ComputeAuthView) is pure; ApplyAuthView is the only part
// that touches a document.
package ui

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"

	"harapan-web/internal/domain"
)

// CSS display values used for the two auth regions
const (
	DisplayNone  = "none"
	DisplayBlock = "block"
	DisplayFlex  = "flex"
)

// PlaceholderPhotoURL is shown when the provider has no profile image
const PlaceholderPhotoURL = "https://via.placeholder.com/32"

// AuthView is the desired state of the sign-in control and the profile region
type AuthView struct {
	SignedIn          bool
	AuthButtonDisplay string
	UserInfoDisplay   string
	PhotoURL          string
	Label             string
}

// ComputeAuthView derives the auth regions from user (nil when signed out)
func ComputeAuthView(user *domain.SessionUser) AuthView {
	if user == nil {
		return AuthView{
			AuthButtonDisplay: DisplayBlock,
			UserInfoDisplay:   DisplayNone,
		}
	}

	photo := user.Photo()
	if photo == "" {
		photo = PlaceholderPhotoURL
	}
	label := user.Name()
	if label == "" {
		label = user.Email
	}

	return AuthView{
		SignedIn:          true,
		AuthButtonDisplay: DisplayNone,
		UserInfoDisplay:   DisplayFlex,
		PhotoURL:          photo,
		Label:             label,
	}
}

var profileTemplate = template.Must(template.New("profile").Parse(
	`<img src="{{.PhotoURL}}" alt="Profile" class="profile-avatar">` +
		`<span class="profile-name">{{.Label}}</span>` +
		`<button type="button" class="logout-btn" data-action="sign-out">Logout</button>`))

// profile fields come from the identity provider, so the rendered fragment
// goes through a second, allow-list pass
var profilePolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("span", "button")
	p.AllowImages()
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("type").Matching(bluemonday.SpaceSeparatedTokens).OnElements("button")
	p.AllowDataAttributes()
	p.AllowURLSchemes("http", "https")
	p.RequireParseableURLs(true)
	return p
}()

// ProfileHTML renders the inner HTML of the profile region. It is empty for a
// signed-out view.
func (v AuthView) ProfileHTML() string {
	if !v.SignedIn {
		return ""
	}
	var buf bytes.Buffer
	if err := profileTemplate.Execute(&buf, v); err != nil {
		return ""
	}
	return profilePolicy.Sanitize(buf.String())
}
