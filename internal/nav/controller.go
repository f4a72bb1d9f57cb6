// Package nav drives the mobile navigation menu and the floating navbar of a
// page document.
package nav

import (
	"github.com/PuerkitoBio/goquery"
)

// Class names toggled by the controller
const (
	ClassActive   = "active"
	ClassOpen     = "open"
	ClassScrolled = "scrolled"
)

// ScrollThreshold is the vertical offset past which the navbar is styled as scrolled
const ScrollThreshold = 50

const (
	menuButtonSelector = "#mobile-menu-btn, .mobile-menu-btn"
	navLinksSelector   = ".nav-links"
	navLinkSelector    = ".nav-links a"
	navbarSelector     = ".navbar"
	homeAnchorSelector = `a[href="#home"], a[href="#"]`
)

// ClickResult reports what a click did beyond class changes
type ClickResult struct {
	// PreventDefault is set when the click's default navigation was suppressed
	PreventDefault bool
	// ScrolledToTop is set when the viewport was scrolled back to the top
	ScrolledToTop bool
}

// Controller holds the navigation elements found in a document. Any of them
// may be missing, in which case the handlers that need it do nothing.
type Controller struct {
	doc        *goquery.Document
	menuButton *goquery.Selection
	navLinks   *goquery.Selection
	navbar     *goquery.Selection

	// ScrollY is the viewport's vertical scroll offset
	ScrollY float64
}

// Attach looks up the navigation elements of doc once
func Attach(doc *goquery.Document) *Controller {
	c := &Controller{doc: doc}
	if doc == nil {
		return c
	}
	c.menuButton = present(doc.Find(menuButtonSelector).First())
	c.navLinks = present(doc.Find(navLinksSelector).First())
	c.navbar = present(doc.Find(navbarSelector).First())
	return c
}

func present(sel *goquery.Selection) *goquery.Selection {
	if sel.Length() == 0 {
		return nil
	}
	return sel
}

// ToggleMenu flips the open state of the mobile menu
func (c *Controller) ToggleMenu() {
	if c.menuButton == nil {
		return
	}
	if c.navLinks != nil {
		c.navLinks.ToggleClass(ClassActive)
	}
	c.menuButton.ToggleClass(ClassOpen)
}

// CloseMenu closes the mobile menu regardless of its state
func (c *Controller) CloseMenu() {
	if c.navLinks != nil {
		c.navLinks.RemoveClass(ClassActive)
	}
	if c.menuButton != nil {
		c.menuButton.RemoveClass(ClassOpen)
	}
}

// MenuOpen reports whether the menu is currently shown
func (c *Controller) MenuOpen() bool {
	return c.navLinks != nil && c.navLinks.HasClass(ClassActive)
}

// HandleClick dispatches a click on target. A link inside the menu closes it;
// an anchor to the home fragment scrolls to the top instead of jumping.
func (c *Controller) HandleClick(target *goquery.Selection) ClickResult {
	var result ClickResult
	if c.doc == nil || target == nil || target.Length() == 0 {
		return result
	}

	if c.menuButton != nil && target.IsSelection(c.menuButton) {
		c.ToggleMenu()
	}

	if target.Is(navLinkSelector) {
		c.CloseMenu()
	}

	if target.Is(homeAnchorSelector) {
		result.PreventDefault = true
		c.ScrollTo(0)
		result.ScrolledToTop = true
	}

	return result
}

// ScrollTo moves the viewport and fires the scroll handler, as a browser does
func (c *Controller) ScrollTo(y float64) {
	c.ScrollY = y
	c.HandleScroll(y)
}

// HandleScroll restyles the navbar for scroll offset y
func (c *Controller) HandleScroll(y float64) {
	if c.navbar == nil {
		return
	}
	if Scrolled(y) {
		c.navbar.AddClass(ClassScrolled)
	} else {
		c.navbar.RemoveClass(ClassScrolled)
	}
}

// Scrolled reports whether offset y is past ScrollThreshold
func Scrolled(y float64) bool {
	return y > ScrollThreshold
}
