package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/talent-portal/internal/dtos"
	"github.com/justsurfingit/talent-portal/internal/middleware"
	"github.com/justsurfingit/talent-portal/internal/services"
)

// CandidateHandler serves job search, job details and the candidate's own
// applications.
type CandidateHandler struct {
	// ApplyDelay is how long the confirmation stays up before moving on to
	// the applications page.
	ApplyDelay time.Duration
}

func NewCandidateHandler(applyDelay time.Duration) *CandidateHandler {
	return &CandidateHandler{ApplyDelay: applyDelay}
}

func (h *CandidateHandler) Dashboard(c *gin.Context) {
	p := newPage(c, "Find Jobs")

	var form dtos.FilterForm
	if err := c.ShouldBindQuery(&form); err != nil {
		p.Errors = dtos.FieldErrors(err)
		form = dtos.FilterForm{Search: form.Search, Location: form.Location}
	}
	p.Form = form
	p.Data = pageLoaders(c).CandidateDashboard(c.Request.Context(), form.Filters())
	c.HTML(http.StatusOK, "candidate_dashboard.html", p)
}

func (h *CandidateHandler) MyApplications(c *gin.Context) {
	p := newPage(c, "My Applications")
	p.Data = pageLoaders(c).MyApplications(c.Request.Context())
	c.HTML(http.StatusOK, "my_applications.html", p)
}

func (h *CandidateHandler) JobDetails(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, err := pageLoaders(c).JobDetails(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	p := newPage(c, data.Job.Title)
	p.Data = data
	c.HTML(http.StatusOK, "job_details.html", p)
}

// Apply is POST /jobs/:id/apply
func (h *CandidateHandler) Apply(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := middleware.API(c).Applications.Apply(c.Request.Context(), id); err != nil {
		log.Printf("candidate: apply to %s: %v", id, err)
		flash(c, flashError, services.MessageOf(err, "Failed to submit application"))
		c.Redirect(http.StatusSeeOther, "/jobs/"+id.String())
		return
	}
	flash(c, flashSuccess, "Application submitted! Redirecting...")
	redirectAfter(c, "/applications", h.ApplyDelay)
}
