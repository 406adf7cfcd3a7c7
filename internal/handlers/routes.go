package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/talent-portal/internal/config"
	"github.com/justsurfingit/talent-portal/internal/format"
	"github.com/justsurfingit/talent-portal/internal/guard"
	"github.com/justsurfingit/talent-portal/internal/middleware"
	"github.com/justsurfingit/talent-portal/internal/models"
	"github.com/justsurfingit/talent-portal/internal/services"
	"github.com/justsurfingit/talent-portal/internal/session"
	"github.com/justsurfingit/talent-portal/internal/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is what the router needs from main.
type Deps struct {
	Config    *config.Config
	Registry  *session.Registry
	Client    *services.Client
	LLM       *services.LLMService
	Formatter *format.Formatter
}

// NewRouter wires every page, action and probe.
func NewRouter(d Deps) (*gin.Engine, error) {
	tmpl, err := web.Templates(templateFuncs(d.Formatter))
	if err != nil {
		return nil, err
	}

	r := gin.Default()
	r.SetHTMLTemplate(tmpl)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = d.Config.Server.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	r.Use(cors.New(corsConfig))

	store := cookie.NewStore([]byte(d.Config.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(d.Config.Session.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   d.Config.Session.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	browser := []gin.HandlerFunc{
		sessions.Sessions(middleware.CookieName, store),
		middleware.Session(d.Registry, d.Client),
	}

	r.GET("/health", HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", browser...)
	{
		api.GET("/session", Session)
	}

	auth := NewAuthHandler()
	candidate := NewCandidateHandler(d.Config.Server.ApplyRedirectDelay)
	admin := NewAdminHandler(d.LLM, d.Config.Server.SaveRedirectDelay)

	pages := r.Group("", browser...)
	pages.POST("/logout", auth.Logout)

	guest := pages.Group("", middleware.GuestOnly())
	{
		guest.GET("/login", auth.ShowLogin)
		guest.POST("/login", auth.Login)
		guest.GET("/register", auth.ShowRegister)
		guest.POST("/register", auth.Register)
	}

	member := pages.Group("", middleware.RequireRoles())
	{
		member.GET("/jobs/:id", candidate.JobDetails)
	}

	candidates := pages.Group("", middleware.RequireRoles(models.RoleCandidate))
	{
		candidates.GET("/dashboard", candidate.Dashboard)
		candidates.GET("/applications", candidate.MyApplications)
		candidates.POST("/jobs/:id/apply", candidate.Apply)
	}

	admins := pages.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	{
		admins.GET("/dashboard", admin.Dashboard)
		admins.GET("/jobs/new", admin.NewJob)
		admins.POST("/jobs", admin.CreateJob)
		admins.POST("/jobs/import", admin.ImportJob)
		admins.GET("/jobs/:id/edit", admin.EditJob)
		admins.POST("/jobs/:id", admin.UpdateJob)
		admins.POST("/jobs/:id/delete", admin.DeleteJob)
		admins.GET("/jobs/:id/applications", admin.JobApplications)
		admins.POST("/applications/:id/status", admin.UpdateApplicationStatus)
	}

	toLogin := func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, guard.LoginPath)
	}
	r.GET("/", toLogin)
	r.NoRoute(toLogin)

	return r, nil
}
