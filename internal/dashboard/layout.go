package dashboard

import (
	"context"

	"github.com/ErlanBelekov/auth-shell/internal/domain"
)

type authSession interface {
	CurrentUser() *domain.User
	Logout(ctx context.Context)
}

// Layout is the dashboard frame: it shows who is signed in and offers logout.
// It keeps no state of its own.
type Layout struct {
	session authSession
}

func NewLayout(s authSession) *Layout {
	return &Layout{session: s}
}

// User is read from the session on every call.
func (l *Layout) User() *domain.User {
	return l.session.CurrentUser()
}

func (l *Layout) Logout(ctx context.Context) {
	l.session.Logout(ctx)
}

// View is what the dashboard template renders.
type View struct {
	Name  string
	Email string
	Roles []string
}

// View projects the current user for rendering. ok is false when nobody is
// signed in.
func (l *Layout) View() (View, bool) {
	u := l.User()
	if u == nil {
		return View{}, false
	}
	name := u.Name
	if name == "" {
		name = u.Email
	}
	return View{Name: name, Email: u.Email, Roles: u.Roles}, true
}
