// Package web holds the server-rendered page templates.
package web

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/PuerkitoBio/goquery"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// NavLink is one entry of the navigation menu
type NavLink struct {
	Href  string
	Label string
}

// HomePage is the data rendered into index.html
type HomePage struct {
	Title    string
	Brand    string
	Headline string
	Tagline  string
	Links    []NavLink
}

// DefaultHomePage returns the content of the public home page
func DefaultHomePage() HomePage {
	return HomePage{
		Title:    "Harapan | Wisata Desa",
		Brand:    "Harapan",
		Headline: "Jelajahi Desa Harapan",
		Tagline:  "Destinasi, paket wisata, dan pemandu lokal dalam satu tempat.",
		Links: []NavLink{
			{Href: "#home", Label: "Beranda"},
			{Href: "#destinations", Label: "Destinasi"},
			{Href: "#packages", Label: "Paket"},
			{Href: "#events", Label: "Acara"},
			{Href: "#contact", Label: "Kontak"},
		},
	}
}

// HomeDocument executes the home page template and parses the result into a
// document the auth and navigation controllers can work on
func HomeDocument(page HomePage) (*goquery.Document, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "index.html", page); err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(&buf)
}
