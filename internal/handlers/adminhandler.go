package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/justsurfingit/talent-portal/internal/dtos"
	"github.com/justsurfingit/talent-portal/internal/format"
	"github.com/justsurfingit/talent-portal/internal/listing"
	"github.com/justsurfingit/talent-portal/internal/loaders"
	"github.com/justsurfingit/talent-portal/internal/middleware"
	"github.com/justsurfingit/talent-portal/internal/models"
	"github.com/justsurfingit/talent-portal/internal/services"
)

const dashboardView = "admin/dashboard"

func applicationsView(jobID uuid.UUID) string {
	return "admin/jobs/" + jobID.String() + "/applications"
}

// AdminHandler serves the recruiter pages. List pages keep their rows on
// the session provider so a delete or status change can be shown without
// fetching the list again.
type AdminHandler struct {
	LLMService *services.LLMService
	// SaveDelay is how long the confirmation stays up after a job is saved.
	SaveDelay time.Duration
}

func NewAdminHandler(llm *services.LLMService, saveDelay time.Duration) *AdminHandler {
	return &AdminHandler{LLMService: llm, SaveDelay: saveDelay}
}

type jobFormData struct {
	Job           *models.Job
	ImportEnabled bool
}

type jobApplicationsData struct {
	Job          *models.Job
	Applications []models.Application
	Statuses     []models.ApplicationStatus
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	provider := middleware.Provider(c)
	if view, ok := provider.TakeReconciled(dashboardView); ok {
		h.renderDashboard(c, http.StatusOK, loaders.AdminDashboardData{Jobs: view.Jobs})
		return
	}
	data := pageLoaders(c).AdminDashboard(c.Request.Context())
	provider.SetView(dashboardView, listing.State{Jobs: data.Jobs})
	h.renderDashboard(c, http.StatusOK, data)
}

func (h *AdminHandler) renderDashboard(c *gin.Context, status int, data loaders.AdminDashboardData) {
	p := newPage(c, "My Jobs")
	p.Data = data
	c.HTML(status, "admin_dashboard.html", p)
}

func (h *AdminHandler) renderForm(c *gin.Context, status int, job *models.Job, form dtos.JobForm, errs map[string]string) {
	title := "New Job"
	if job != nil {
		title = "Edit Job"
	}
	p := newPage(c, title)
	p.Form = form
	p.Errors = errs
	p.Data = jobFormData{Job: job, ImportEnabled: h.LLMService.Enabled()}
	c.HTML(status, "job_form.html", p)
}

func (h *AdminHandler) NewJob(c *gin.Context) {
	data, err := pageLoaders(c).JobForm(c.Request.Context(), nil)
	if err != nil {
		renderError(c, err)
		return
	}
	h.renderForm(c, http.StatusOK, data.Job, dtos.NewJobForm(), nil)
}

// CreateJob is POST /admin/jobs
func (h *AdminHandler) CreateJob(c *gin.Context) {
	var form dtos.JobForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, nil, form, dtos.FieldErrors(err))
		return
	}
	if _, err := middleware.API(c).Jobs.Create(c.Request.Context(), form.CreateRequest()); err != nil {
		log.Printf("admin: create job: %v", err)
		flash(c, flashError, services.MessageOf(err, "Failed to save job"))
		h.renderForm(c, failureStatus(err), nil, form, nil)
		return
	}
	flash(c, flashSuccess, "Job created successfully!")
	redirectAfter(c, "/admin/dashboard", h.SaveDelay)
}

// ImportJob is POST /admin/jobs/import. It pre-fills the new job form from
// a pasted posting; nothing is saved until the recruiter submits the form.
func (h *AdminHandler) ImportJob(c *gin.Context) {
	if !h.LLMService.Enabled() {
		flash(c, flashError, "Job import is not configured")
		h.renderForm(c, http.StatusServiceUnavailable, nil, dtos.NewJobForm(), nil)
		return
	}

	var in dtos.ImportForm
	if err := c.ShouldBind(&in); err != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, nil, dtos.NewJobForm(), dtos.FieldErrors(err))
		return
	}

	draft, err := h.LLMService.ExtractJobDraft(c.Request.Context(), in.Raw)
	if err != nil {
		log.Printf("admin: import job: %v", err)
		msg := "Could not read that posting. Fill the form manually."
		if errors.Is(err, services.ErrImportDisabled) {
			msg = "Job import is not configured"
		}
		flash(c, flashError, msg)
		h.renderForm(c, http.StatusOK, nil, dtos.NewJobForm(), nil)
		return
	}
	flash(c, flashSuccess, "Draft extracted. Review it before saving.")
	h.renderForm(c, http.StatusOK, nil, draft, nil)
}

func (h *AdminHandler) EditJob(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, err := pageLoaders(c).JobForm(c.Request.Context(), &id)
	if err != nil {
		renderError(c, err)
		return
	}
	h.renderForm(c, http.StatusOK, data.Job, dtos.JobFormFrom(data.Job), nil)
}

// UpdateJob is POST /admin/jobs/:id
func (h *AdminHandler) UpdateJob(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	editing := &models.Job{ID: id}

	var form dtos.JobForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, editing, form, dtos.FieldErrors(err))
		return
	}
	if _, err := middleware.API(c).Jobs.Update(c.Request.Context(), id, form.UpdateRequest()); err != nil {
		log.Printf("admin: update job %s: %v", id, err)
		flash(c, flashError, services.MessageOf(err, "Failed to save job"))
		h.renderForm(c, failureStatus(err), editing, form, nil)
		return
	}
	flash(c, flashSuccess, "Job updated successfully!")
	redirectAfter(c, "/admin/dashboard", h.SaveDelay)
}

// DeleteJob is POST /admin/jobs/:id/delete. It answers with a redirect so
// a reload cannot repeat the delete; the dashboard then renders the held
// list with the card removed.
func (h *AdminHandler) DeleteJob(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := middleware.API(c).Jobs.Delete(c.Request.Context(), id); err != nil {
		log.Printf("admin: delete job %s: %v", id, err)
		flash(c, flashError, services.MessageOf(err, "Failed to delete job"))
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}

	flash(c, flashSuccess, "Job deleted successfully!")
	middleware.Provider(c).Dispatch(dashboardView, listing.ItemDeleted{ID: id})
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

func (h *AdminHandler) JobApplications(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	provider := middleware.Provider(c)
	if view, ok := provider.TakeReconciled(applicationsView(id)); ok && view.Job != nil {
		h.renderApplications(c, http.StatusOK, view.Job, view.Applications)
		return
	}
	data, err := pageLoaders(c).JobApplications(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	provider.SetView(applicationsView(id), listing.State{Job: data.Job, Applications: data.Applications})
	h.renderApplications(c, http.StatusOK, data.Job, data.Applications)
}

func (h *AdminHandler) renderApplications(c *gin.Context, status int, job *models.Job, apps []models.Application) {
	p := newPage(c, "Applicants")
	p.Data = jobApplicationsData{Job: job, Applications: apps, Statuses: models.ApplicationStatuses}
	c.HTML(status, "job_applications.html", p)
}

// UpdateApplicationStatus is POST /admin/applications/:id/status. Like
// DeleteJob it redirects back to the list, which shows the held rows with
// only the changed one updated.
func (h *AdminHandler) UpdateApplicationStatus(c *gin.Context) {
	appID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var form dtos.StatusForm
	if err := c.ShouldBind(&form); err != nil {
		flash(c, flashError, "Invalid status")
		if jobID, err := uuid.Parse(form.JobID); err == nil {
			c.Redirect(http.StatusSeeOther, "/admin/jobs/"+jobID.String()+"/applications")
			return
		}
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}
	jobID := uuid.MustParse(form.JobID)
	back := "/admin/jobs/" + jobID.String() + "/applications"
	status := models.ApplicationStatus(form.Status)

	if _, err := middleware.API(c).Applications.UpdateStatus(c.Request.Context(), appID, status); err != nil {
		log.Printf("admin: update application %s: %v", appID, err)
		flash(c, flashError, services.MessageOf(err, "Failed to update status"))
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	flash(c, flashSuccess, "Status updated to: "+format.ApplicationStatusLabel(status))
	middleware.Provider(c).Dispatch(applicationsView(jobID), listing.StatusChanged{ID: appID, Status: status})
	c.Redirect(http.StatusSeeOther, back)
}
