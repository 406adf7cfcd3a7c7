// Package loaders fetches the data a page needs before it renders.
//
// Listing loaders never fail: a remote error is logged and replaced by an
// empty result so the page still renders. Detail loaders return the error
// so the caller can show the error page instead.
package loaders

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/justsurfingit/talent-portal/internal/dtos"
	"github.com/justsurfingit/talent-portal/internal/metrics"
	"github.com/justsurfingit/talent-portal/internal/models"
	"golang.org/x/sync/errgroup"
)

type JobsAPI interface {
	List(ctx context.Context, filters dtos.JobFilters) (*models.JobListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Job, error)
	MyJobs(ctx context.Context) ([]models.Job, error)
}

type ApplicationsAPI interface {
	MyApplications(ctx context.Context) ([]models.Application, error)
	ForJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error)
}

type Loaders struct {
	Jobs         JobsAPI
	Applications ApplicationsAPI
}

func New(jobs JobsAPI, apps ApplicationsAPI) *Loaders {
	return &Loaders{Jobs: jobs, Applications: apps}
}

type CandidateDashboardData struct {
	Jobs  []models.Job
	Total int64
	// Failed is set when the list could not be fetched.
	Failed bool
}

type AdminDashboardData struct {
	Jobs   []models.Job
	Failed bool
}

type MyApplicationsData struct {
	Applications []models.Application
	Failed       bool
}

type JobDetailsData struct {
	Job *models.Job
}

type JobApplicationsData struct {
	Job          *models.Job
	Applications []models.Application
}

type JobFormData struct {
	// Job is nil when the form creates a new posting.
	Job *models.Job
}

func fallback(loader string, err error) {
	log.Printf("loader %s: %v (rendering empty)", loader, err)
	metrics.LoaderFallbacksTotal.WithLabelValues(loader).Inc()
}

// CandidateDashboard lists open jobs matching filters.
func (l *Loaders) CandidateDashboard(ctx context.Context, filters dtos.JobFilters) CandidateDashboardData {
	filters.Status = models.JobStatusOpen
	resp, err := l.Jobs.List(ctx, filters)
	if err != nil {
		fallback("candidate_dashboard", err)
		return CandidateDashboardData{Jobs: []models.Job{}, Failed: true}
	}
	jobs := resp.Jobs
	if jobs == nil {
		jobs = []models.Job{}
	}
	return CandidateDashboardData{Jobs: jobs, Total: resp.Total}
}

func (l *Loaders) AdminDashboard(ctx context.Context) AdminDashboardData {
	jobs, err := l.Jobs.MyJobs(ctx)
	if err != nil {
		fallback("admin_dashboard", err)
		return AdminDashboardData{Jobs: []models.Job{}, Failed: true}
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return AdminDashboardData{Jobs: jobs}
}

func (l *Loaders) MyApplications(ctx context.Context) MyApplicationsData {
	apps, err := l.Applications.MyApplications(ctx)
	if err != nil {
		fallback("my_applications", err)
		return MyApplicationsData{Applications: []models.Application{}, Failed: true}
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return MyApplicationsData{Applications: apps}
}

func (l *Loaders) JobDetails(ctx context.Context, id uuid.UUID) (JobDetailsData, error) {
	job, err := l.Jobs.Get(ctx, id)
	if err != nil {
		log.Printf("loader job_details %s: %v", id, err)
		return JobDetailsData{}, err
	}
	return JobDetailsData{Job: job}, nil
}

// JobApplications fetches the job and its applications concurrently and
// fails if either call fails.
func (l *Loaders) JobApplications(ctx context.Context, id uuid.UUID) (JobApplicationsData, error) {
	var (
		job  *models.Job
		apps []models.Application
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		job, err = l.Jobs.Get(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		apps, err = l.Applications.ForJob(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("loader job_applications %s: %v", id, err)
		return JobApplicationsData{}, err
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return JobApplicationsData{Job: job, Applications: apps}, nil
}

// JobForm loads the posting being edited. A nil id means a new posting and
// fetches nothing.
func (l *Loaders) JobForm(ctx context.Context, id *uuid.UUID) (JobFormData, error) {
	if id == nil {
		return JobFormData{}, nil
	}
	job, err := l.Jobs.Get(ctx, *id)
	if err != nil {
		log.Printf("loader job_form %s: %v", *id, err)
		return JobFormData{}, err
	}
	return JobFormData{Job: job}, nil
}
