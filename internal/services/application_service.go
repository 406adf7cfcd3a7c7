package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/justsurfingit/talent-portal/internal/dtos"
	"github.com/justsurfingit/talent-portal/internal/models"
)

type ApplicationService struct {
	Client *Client
}

func NewApplicationService(c *Client) *ApplicationService {
	return &ApplicationService{Client: c}
}

// Apply submits the signed-in candidate to a job.
func (s *ApplicationService) Apply(ctx context.Context, jobID uuid.UUID) (*models.Application, error) {
	var app models.Application
	req := dtos.CreateApplicationRequest{JobID: jobID}
	if err := s.Client.do(ctx, "applications.create", http.MethodPost, "/applications", nil, req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *ApplicationService) MyApplications(ctx context.Context) ([]models.Application, error) {
	var apps []models.Application
	if err := s.Client.do(ctx, "applications.mine", http.MethodGet, "/applications/my-applications", nil, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *ApplicationService) ForJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	path := "/jobs/" + jobID.String() + "/applications"
	if err := s.Client.do(ctx, "applications.for_job", http.MethodGet, path, nil, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *ApplicationService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.Application, error) {
	var app models.Application
	req := dtos.UpdateApplicationStatusRequest{Status: status}
	if err := s.Client.do(ctx, "applications.update_status", http.MethodPut, "/applications/"+id.String(), nil, req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}
