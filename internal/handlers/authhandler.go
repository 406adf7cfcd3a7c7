package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/talent-portal/internal/dtos"
	"github.com/justsurfingit/talent-portal/internal/guard"
	"github.com/justsurfingit/talent-portal/internal/middleware"
	"github.com/justsurfingit/talent-portal/internal/services"
)

// AuthHandler serves sign-in, sign-up and sign-out. The session provider it
// acts on comes from the request context.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	p := newPage(c, "Sign in")
	p.Form = dtos.LoginRequest{}
	c.HTML(http.StatusOK, "login.html", p)
}

// Login is POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var form dtos.LoginRequest
	if err := c.ShouldBind(&form); err != nil {
		p := newPage(c, "Sign in")
		p.Form = dtos.LoginRequest{Email: form.Email}
		p.Errors = dtos.FieldErrors(err)
		c.HTML(http.StatusUnprocessableEntity, "login.html", p)
		return
	}

	user, err := middleware.Provider(c).Login(c.Request.Context(), form)
	if err != nil {
		log.Printf("auth: login %s: %v", form.Email, err)
		flash(c, flashError, services.MessageOf(err, "Sign-in failed. Check your credentials."))
		p := newPage(c, "Sign in")
		p.Form = dtos.LoginRequest{Email: form.Email}
		c.HTML(failureStatus(err), "login.html", p)
		return
	}

	flash(c, flashSuccess, "Signed in successfully!")
	c.Redirect(http.StatusSeeOther, guard.HomeFor(user.Role))
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	p := newPage(c, "Create account")
	p.Form = dtos.RegisterForm{Role: "candidate"}
	c.HTML(http.StatusOK, "register.html", p)
}

// Register is POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var form dtos.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		p := newPage(c, "Create account")
		p.Form = dtos.RegisterForm{Email: form.Email, Role: form.Role}
		p.Errors = dtos.FieldErrors(err)
		c.HTML(http.StatusUnprocessableEntity, "register.html", p)
		return
	}

	user, err := middleware.Provider(c).Register(c.Request.Context(), form.Request())
	if err != nil {
		log.Printf("auth: register %s: %v", form.Email, err)
		flash(c, flashError, services.MessageOf(err, "Sign-up failed. Try again."))
		p := newPage(c, "Create account")
		p.Form = dtos.RegisterForm{Email: form.Email, Role: form.Role}
		c.HTML(failureStatus(err), "register.html", p)
		return
	}

	flash(c, flashSuccess, "Account created! Welcome!")
	c.Redirect(http.StatusSeeOther, guard.HomeFor(user.Role))
}

// Logout forgets the session locally; the API is not told.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := middleware.Provider(c).Logout(c.Request.Context()); err != nil {
		log.Printf("auth: logout: %v", err)
	}
	c.Redirect(http.StatusSeeOther, guard.LoginPath)
}
