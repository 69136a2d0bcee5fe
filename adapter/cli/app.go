package cli

import (
	"github.com/felixgeelhaar/cmas/internal/app"
	identityDomain "github.com/felixgeelhaar/cmas/internal/identity/domain"
)

// App holds the CLI application dependencies.
type App struct {
	Container *app.Container

	// CurrentUser is set by login for the lifetime of the process.
	CurrentUser *identityDomain.User
}

var cliApp *App

// SetApp installs the application for command handlers.
func SetApp(a *App) {
	cliApp = a
}

// GetApp returns the installed application, or nil when initialization
// failed.
func GetApp() *App {
	return cliApp
}
