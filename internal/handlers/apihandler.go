package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/talent-portal/internal/guard"
	"github.com/justsurfingit/talent-portal/internal/middleware"
	"github.com/justsurfingit/talent-portal/internal/models"
)

type sessionResponse struct {
	State         string             `json:"state"`
	Authenticated bool               `json:"authenticated"`
	User          *models.User       `json:"user"`
	Home          string             `json:"home"`
	Capabilities  guard.Capabilities `json:"capabilities"`
}

// HealthCheck is GET /health
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Session is GET /api/session. It reports who the browser is signed in as
// and what the interface offers them.
func Session(c *gin.Context) {
	snap := middleware.Provider(c).Snapshot()
	resp := sessionResponse{
		State:         snap.State.String(),
		Authenticated: snap.IsAuthenticated(),
		User:          snap.User,
		Home:          guard.LoginPath,
		Capabilities:  guard.CapabilitiesFor(snap.Role()),
	}
	if snap.IsAuthenticated() {
		resp.Home = guard.HomeFor(snap.Role())
	}
	c.JSON(http.StatusOK, resp)
}
