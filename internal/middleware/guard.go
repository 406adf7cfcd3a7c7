package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/talent-portal/internal/guard"
	"github.com/justsurfingit/talent-portal/internal/metrics"
	"github.com/justsurfingit/talent-portal/internal/models"
)

// waitPage is served while a session is still resolving; it reloads itself.
const waitPage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><meta http-equiv="refresh" content="1"><title>Loading…</title></head>
<body><div class="min-h-screen flex items-center justify-center"><div class="animate-spin rounded-full h-12 w-12 border-b-2 border-blue-600"></div></div></body></html>`

// RequireRoles admits signed-in users whose role is in roles; no roles
// admits any signed-in user.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := guard.Protect(Subject(Provider(c).Snapshot()), roles...)
		enforce(c, "protect", d)
	}
}

// GuestOnly keeps signed-in users away from the sign-in and sign-up pages.
func GuestOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := guard.GuestOnly(Subject(Provider(c).Snapshot()))
		enforce(c, "guest_only", d)
	}
}

func enforce(c *gin.Context, name string, d guard.Decision) {
	metrics.GuardDecisionsTotal.WithLabelValues(name, d.Outcome.String()).Inc()
	switch d.Outcome {
	case guard.Wait:
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(waitPage))
		c.Abort()
	case guard.Redirect:
		c.Redirect(http.StatusSeeOther, d.Location)
		c.Abort()
	default:
		c.Next()
	}
}
