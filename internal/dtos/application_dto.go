package dtos

import (
	"github.com/google/uuid"
	"github.com/justsurfingit/talent-portal/internal/models"
)

type CreateApplicationRequest struct {
	JobID uuid.UUID `json:"job_id"`
}

type UpdateApplicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status"`
}

// StatusForm is posted from a row of the job applications page.
type StatusForm struct {
	JobID  string `form:"job_id" binding:"required,uuid"`
	Status string `form:"status" binding:"required,oneof=pending reviewing approved rejected"`
}

// ImportForm holds a raw job posting pasted by a recruiter.
type ImportForm struct {
	Raw string `form:"raw" binding:"required"`
}
