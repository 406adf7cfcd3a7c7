package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/justsurfingit/talent-portal/internal/dtos"
	"github.com/justsurfingit/talent-portal/internal/models"
)

type JobService struct {
	Client *Client
}

func NewJobService(c *Client) *JobService {
	return &JobService{Client: c}
}

func (s *JobService) List(ctx context.Context, filters dtos.JobFilters) (*models.JobListResponse, error) {
	var resp models.JobListResponse
	if err := s.Client.do(ctx, "jobs.list", http.MethodGet, "/jobs", filters.Query(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *JobService) Get(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := s.Client.do(ctx, "jobs.get", http.MethodGet, "/jobs/"+id.String(), nil, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *JobService) Create(ctx context.Context, req dtos.CreateJobRequest) (*models.Job, error) {
	var job models.Job
	if err := s.Client.do(ctx, "jobs.create", http.MethodPost, "/jobs", nil, req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *JobService) Update(ctx context.Context, id uuid.UUID, req dtos.UpdateJobRequest) (*models.Job, error) {
	var job models.Job
	if err := s.Client.do(ctx, "jobs.update", http.MethodPut, "/jobs/"+id.String(), nil, req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *JobService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Client.do(ctx, "jobs.delete", http.MethodDelete, "/jobs/"+id.String(), nil, nil, nil)
}

// MyJobs lists the postings owned by the signed-in recruiter.
func (s *JobService) MyJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := s.Client.do(ctx, "jobs.mine", http.MethodGet, "/jobs/my-jobs", nil, nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}
