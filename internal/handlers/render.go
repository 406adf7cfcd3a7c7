package handlers

import (
	"html/template"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/justsurfingit/talent-portal/internal/format"
	"github.com/justsurfingit/talent-portal/internal/guard"
	"github.com/justsurfingit/talent-portal/internal/loaders"
	"github.com/justsurfingit/talent-portal/internal/middleware"
	"github.com/justsurfingit/talent-portal/internal/models"
	"github.com/justsurfingit/talent-portal/internal/services"
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

// Page is the data every template renders from.
type Page struct {
	Title string
	User  *models.User
	Home  string
	Caps  guard.Capabilities

	Success []string
	Failure []string

	// Errors maps a form field to its validation message.
	Errors map[string]string
	Form   any
	Data   any
}

type jobCard struct {
	Job     models.Job
	Actions bool
}

type errorData struct {
	Status  int
	Heading string
	Message string
}

type redirectData struct {
	Location    string
	Seconds     int
	DelayMillis int64
}

func templateFuncs(f *format.Formatter) template.FuncMap {
	funcs := template.FuncMap(f.Funcs())
	funcs["jobCard"] = func(job models.Job, actions bool) jobCard {
		return jobCard{Job: job, Actions: actions}
	}
	return funcs
}

// flash queues a one-shot notification for the next rendered page.
func flash(c *gin.Context, kind, msg string) {
	s := sessions.Default(c)
	s.AddFlash(msg, kind)
	if err := s.Save(); err != nil {
		log.Printf("handlers: save flash: %v", err)
	}
}

func popFlashes(s sessions.Session, kind string) []string {
	var out []string
	for _, v := range s.Flashes(kind) {
		if msg, ok := v.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

// newPage collects the viewer and pending notifications. It must run
// before anything is written to the response.
func newPage(c *gin.Context, title string) *Page {
	snap := middleware.Provider(c).Snapshot()
	p := &Page{
		Title: title,
		User:  snap.User,
		Home:  guard.LoginPath,
		Caps:  guard.CapabilitiesFor(snap.Role()),
	}
	if snap.User != nil {
		p.Home = guard.HomeFor(snap.Role())
	}

	s := sessions.Default(c)
	p.Success = popFlashes(s, flashSuccess)
	p.Failure = popFlashes(s, flashError)
	if len(p.Success)+len(p.Failure) > 0 {
		if err := s.Save(); err != nil {
			log.Printf("handlers: save session: %v", err)
		}
	}
	return p
}

func pageLoaders(c *gin.Context) *loaders.Loaders {
	api := middleware.API(c)
	return loaders.New(api.Jobs, api.Applications)
}

// failureStatus maps a failed remote call to the status of the re-rendered
// page: the API's own 4xx, otherwise 502.
func failureStatus(err error) int {
	if status := services.StatusOf(err); status >= 400 && status < 500 {
		return status
	}
	return http.StatusBadGateway
}

// renderError is the error boundary of the detail pages.
func renderError(c *gin.Context, err error) {
	data := errorData{
		Status:  http.StatusBadGateway,
		Heading: "Something went wrong",
		Message: services.MessageOf(err, "The recruitment service could not be reached. Try again in a moment."),
	}
	if services.IsNotFound(err) {
		data.Status = http.StatusNotFound
		data.Heading = "Not found"
		data.Message = services.MessageOf(err, "This page does not exist or was removed.")
	}
	p := newPage(c, data.Heading)
	p.Data = data
	c.HTML(data.Status, "error.html", p)
}

func renderNotFound(c *gin.Context) {
	renderError(c, &services.APIError{StatusCode: http.StatusNotFound})
}

// pathID parses a uuid path parameter, rendering 404 when it is malformed.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		renderNotFound(c)
		return uuid.Nil, false
	}
	return id, true
}

// redirectAfter shows a short interstitial that moves on to location once
// delay has passed, leaving the success notification on screen meanwhile.
func redirectAfter(c *gin.Context, location string, delay time.Duration) {
	p := newPage(c, "Redirecting")
	p.Data = redirectData{
		Location:    location,
		Seconds:     int(math.Ceil(delay.Seconds())),
		DelayMillis: delay.Milliseconds(),
	}
	c.HTML(http.StatusOK, "redirect.html", p)
}
