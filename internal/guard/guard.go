// Package guard decides, for each navigation, whether a page renders or
// where the browser is sent instead.
package guard

import (
	"slices"

	"github.com/justsurfingit/talent-portal/internal/models"
)

const (
	LoginPath         = "/login"
	AdminHomePath     = "/admin/dashboard"
	CandidateHomePath = "/dashboard"
)

type Outcome int

const (
	Render Outcome = iota
	// Wait means the session is still resolving; a placeholder is shown.
	Wait
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Wait:
		return "wait"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

type Decision struct {
	Outcome  Outcome
	Location string
}

// Subject is what the guard knows about the visitor.
type Subject struct {
	Loading       bool
	Authenticated bool
	Role          models.Role
}

// HomeFor is the landing page of a role.
func HomeFor(role models.Role) string {
	if role == models.RoleAdmin {
		return AdminHomePath
	}
	return CandidateHomePath
}

// Protect gates a page that needs a signed-in user. An empty allowed list
// admits every role.
func Protect(s Subject, allowed ...models.Role) Decision {
	switch {
	case s.Loading:
		return Decision{Outcome: Wait}
	case !s.Authenticated:
		return Decision{Outcome: Redirect, Location: LoginPath}
	case len(allowed) > 0 && !slices.Contains(allowed, s.Role):
		return Decision{Outcome: Redirect, Location: HomeFor(s.Role)}
	}
	return Decision{Outcome: Render}
}

// GuestOnly gates the sign-in and sign-up pages: signed-in users are sent home.
func GuestOnly(s Subject) Decision {
	switch {
	case s.Loading:
		return Decision{Outcome: Wait}
	case s.Authenticated:
		return Decision{Outcome: Redirect, Location: HomeFor(s.Role)}
	}
	return Decision{Outcome: Render}
}
