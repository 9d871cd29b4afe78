// Package viewmodel holds the data shapes handed to the HTML templates.
package viewmodel

// User is the logged-in visitor as shown in the navigation bar.
type User struct {
	ID   string
	Name string
	Role string
}

// Flash is a one-shot message rendered above the page content.
type Flash struct {
	Category string
	Message  string
}

// Layout carries the chrome shared by every page: title, navigation state,
// flashes, locale switcher and the CSRF token for forms.
type Layout struct {
	Title           string
	CurrentPage     string
	CSRFToken       string
	Locale          string
	Locales         []string
	Flashes         []Flash
	User            *User
	IsAuthenticated bool
	IsEmployer      bool
	IsEmployee      bool
	UnreadCount     int
}

// LayoutData lets page structs that embed Layout expose it to the renderer.
func (l *Layout) LayoutData() *Layout { return l }

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}
