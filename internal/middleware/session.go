package middleware

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/justsurfingit/talent-portal/internal/guard"
	"github.com/justsurfingit/talent-portal/internal/services"
	"github.com/justsurfingit/talent-portal/internal/session"
)

const (
	CookieName = "portal_session"

	sessionIDKey = "sid"
	providerKey  = "portal.provider"
	apiKey       = "portal.api"
)

// Session resolves the browser session cookie to its Provider and an API
// bound to that session's tokens. It must run after sessions.Sessions.
func Session(reg *session.Registry, client *services.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		sid, _ := s.Get(sessionIDKey).(string)
		if _, err := uuid.Parse(sid); err != nil {
			sid = uuid.NewString()
			s.Set(sessionIDKey, sid)
			if err := s.Save(); err != nil {
				log.Printf("session: save new browser session: %v", err)
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
		}

		p := reg.Get(c.Request.Context(), sid)
		c.Set(providerKey, p)
		c.Set(apiKey, services.NewAPI(client.WithTokens(p.Store())))
		c.Next()
	}
}

// Provider returns the session provider attached by Session.
func Provider(c *gin.Context) *session.Provider {
	return c.MustGet(providerKey).(*session.Provider)
}

// API returns the API bound to the current browser session.
func API(c *gin.Context) *services.API {
	return c.MustGet(apiKey).(*services.API)
}

// Subject adapts a session snapshot to the guard's input.
func Subject(s session.Snapshot) guard.Subject {
	return guard.Subject{
		Loading:       s.Loading(),
		Authenticated: s.IsAuthenticated(),
		Role:          s.Role(),
	}
}
