package ui

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harapan-web/internal/domain"
)

const authPage = `<html><body>
<nav class="navbar">
  <button id="authButton" style="color: red">Login</button>
  <div id="userInfo" style="display: none"></div>
</nav>
</body></html>`

func newDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestComputeAuthView(t *testing.T) {
	tests := []struct {
		name     string
		user     *domain.SessionUser
		expected AuthView
	}{
		{
			name:     "signed out",
			user:     nil,
			expected: AuthView{AuthButtonDisplay: DisplayBlock, UserInfoDisplay: DisplayNone},
		},
		{
			name: "full profile",
			user: &domain.SessionUser{
				UID:         "u1",
				Email:       "sari@example.com",
				DisplayName: domain.StringPtr("Sari"),
				PhotoURL:    domain.StringPtr("https://img.example.com/sari.png"),
			},
			expected: AuthView{
				SignedIn:          true,
				AuthButtonDisplay: DisplayNone,
				UserInfoDisplay:   DisplayFlex,
				PhotoURL:          "https://img.example.com/sari.png",
				Label:             "Sari",
			},
		},
		{
			name: "no photo and no display name",
			user: &domain.SessionUser{UID: "u2", Email: "budi@example.com"},
			expected: AuthView{
				SignedIn:          true,
				AuthButtonDisplay: DisplayNone,
				UserInfoDisplay:   DisplayFlex,
				PhotoURL:          PlaceholderPhotoURL,
				Label:             "budi@example.com",
			},
		},
		{
			name: "empty display name falls back to email",
			user: &domain.SessionUser{UID: "u3", Email: "c@example.com", DisplayName: new(string)},
			expected: AuthView{
				SignedIn:          true,
				AuthButtonDisplay: DisplayNone,
				UserInfoDisplay:   DisplayFlex,
				PhotoURL:          PlaceholderPhotoURL,
				Label:             "c@example.com",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeAuthView(tt.user))
		})
	}
}

func TestUpdateAuthUI_SignedIn(t *testing.T) {
	doc := newDoc(t, authPage)
	user := &domain.SessionUser{UID: "u1", Email: "sari@example.com", DisplayName: domain.StringPtr("Sari")}

	require.True(t, UpdateAuthUI(doc, user))

	authBtn := doc.Find("#authButton")
	userInfo := doc.Find("#userInfo")
	assert.Equal(t, DisplayNone, Display(authBtn))
	assert.Equal(t, DisplayFlex, Display(userInfo))

	style, _ := authBtn.Attr("style")
	assert.Contains(t, style, "color: red")

	src, _ := userInfo.Find("img").Attr("src")
	assert.Equal(t, PlaceholderPhotoURL, src)
	assert.Equal(t, "Sari", userInfo.Find("span.profile-name").Text())
	assert.Equal(t, 1, userInfo.Find(`button[data-action="sign-out"]`).Length())
}

func TestUpdateAuthUI_SignedOut(t *testing.T) {
	doc := newDoc(t, authPage)

	require.True(t, UpdateAuthUI(doc, nil))

	assert.Equal(t, DisplayBlock, Display(doc.Find("#authButton")))
	assert.Equal(t, DisplayNone, Display(doc.Find("#userInfo")))
}

func TestUpdateAuthUI_Idempotent(t *testing.T) {
	users := []*domain.SessionUser{
		nil,
		{UID: "u1", Email: "a@example.com"},
		{UID: "u2", Email: "b@example.com", DisplayName: domain.StringPtr("B"), PhotoURL: domain.StringPtr("https://x.example.com/b.png")},
	}

	for _, user := range users {
		doc := newDoc(t, authPage)
		UpdateAuthUI(doc, user)
		first, err := doc.Html()
		require.NoError(t, err)

		UpdateAuthUI(doc, user)
		second, err := doc.Html()
		require.NoError(t, err)

		assert.Equal(t, first, second)
	}
}

func TestUpdateAuthUI_MissingRegions(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{name: "no regions", html: `<html><body><p>hi</p></body></html>`},
		{name: "only auth button", html: `<html><body><button id="authButton"></button></body></html>`},
		{name: "only user info", html: `<html><body><div id="userInfo"></div></body></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newDoc(t, tt.html)
			before, _ := doc.Html()

			assert.NotPanics(t, func() {
				assert.False(t, UpdateAuthUI(doc, &domain.SessionUser{UID: "u1", Email: "a@example.com"}))
			})

			after, _ := doc.Html()
			assert.Equal(t, before, after)
		})
	}

	assert.False(t, UpdateAuthUI(nil, nil))
}

func TestProfileHTML_EscapesProviderFields(t *testing.T) {
	user := &domain.SessionUser{
		UID:         "u1",
		Email:       "a@example.com",
		DisplayName: domain.StringPtr(`<script>alert(1)</script>`),
		PhotoURL:    domain.StringPtr(`javascript:alert(1)`),
	}

	html := ComputeAuthView(user).ProfileHTML()

	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestProfileHTML_SignedOutIsEmpty(t *testing.T) {
	assert.Empty(t, ComputeAuthView(nil).ProfileHTML())
}

func TestDocumentRenderer(t *testing.T) {
	r := NewDocumentRenderer(newDoc(t, authPage))

	r.Render(&domain.SessionUser{UID: "u1", Email: "a@example.com"})
	html, err := r.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, "a@example.com")

	r.Render(nil)
	html, err = r.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, `id="authButton" style="color: red; display: block"`)
}
