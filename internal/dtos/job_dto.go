package dtos

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/justsurfingit/talent-portal/internal/models"
)

type CreateJobRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Salary      *float64       `json:"salary,omitempty"`
	Location    string         `json:"location"`
	Type        models.JobType `json:"type"`
}

type UpdateJobRequest struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Salary      *float64          `json:"salary,omitempty"`
	Location    *string           `json:"location,omitempty"`
	Type        *models.JobType   `json:"type,omitempty"`
	Status      *models.JobStatus `json:"status,omitempty"`
}

// JobForm is what the recruiter submits from the create/edit page.
// Salary stays a string so an empty field can be told apart from zero.
type JobForm struct {
	Title       string `form:"title" json:"title" binding:"required"`
	Description string `form:"description" json:"description" binding:"required"`
	Salary      string `form:"salary" json:"salary" binding:"omitempty,numeric"`
	Location    string `form:"location" json:"location" binding:"required"`
	Type        string `form:"type" json:"type" binding:"required,oneof=remote onsite hybrid"`
	Status      string `form:"status" json:"status" binding:"omitempty,oneof=open closed archived"`
}

// NewJobForm returns the defaults the create page starts from.
func NewJobForm() JobForm {
	return JobForm{Type: string(models.JobTypeRemote), Status: string(models.JobStatusOpen)}
}

// JobFormFrom pre-fills the edit page.
func JobFormFrom(job *models.Job) JobForm {
	form := JobForm{
		Title:       job.Title,
		Description: job.Description,
		Location:    job.Location,
		Type:        string(job.Type),
		Status:      string(job.Status),
	}
	if job.Salary != nil {
		form.Salary = strconv.FormatFloat(*job.Salary, 'f', -1, 64)
	}
	return form
}

func (f JobForm) salary() *float64 {
	if f.Salary == "" {
		return nil
	}
	v, err := strconv.ParseFloat(f.Salary, 64)
	if err != nil {
		return nil
	}
	return &v
}

func (f JobForm) CreateRequest() CreateJobRequest {
	return CreateJobRequest{
		Title:       f.Title,
		Description: f.Description,
		Salary:      f.salary(),
		Location:    f.Location,
		Type:        models.JobType(f.Type),
	}
}

// UpdateRequest sends every field the form edits; status is included only
// when the form carried one.
func (f JobForm) UpdateRequest() UpdateJobRequest {
	jobType := models.JobType(f.Type)
	req := UpdateJobRequest{
		Title:       &f.Title,
		Description: &f.Description,
		Salary:      f.salary(),
		Location:    &f.Location,
		Type:        &jobType,
	}
	if f.Status != "" {
		status := models.JobStatus(f.Status)
		req.Status = &status
	}
	return req
}

type JobFilters struct {
	Search    string
	Location  string
	Type      models.JobType
	SalaryMin *float64
	SalaryMax *float64
	Status    models.JobStatus
	SortBy    string
	Order     string
	Page      int
	Limit     int
}

// Query encodes the filters as the list endpoint expects them; empty values are omitted.
func (f JobFilters) Query() url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("search", f.Search)
	set("location", f.Location)
	set("type", string(f.Type))
	if f.SalaryMin != nil {
		q.Set("salary_min", strconv.FormatFloat(*f.SalaryMin, 'f', -1, 64))
	}
	if f.SalaryMax != nil {
		q.Set("salary_max", strconv.FormatFloat(*f.SalaryMax, 'f', -1, 64))
	}
	set("status", string(f.Status))
	set("sort_by", f.SortBy)
	set("order", f.Order)
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// FilterForm is the candidate search bar, bound from the query string.
type FilterForm struct {
	Search    string `form:"search"`
	Location  string `form:"location"`
	Type      string `form:"type" binding:"omitempty,oneof=remote onsite hybrid"`
	SalaryMin string `form:"salary_min"`
	SalaryMax string `form:"salary_max"`
	SortBy    string `form:"sort_by"`
	Order     string `form:"order" binding:"omitempty,oneof=asc desc"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Filters converts the search bar into list filters. Candidates only ever
// see open postings.
func (f FilterForm) Filters() JobFilters {
	return JobFilters{
		Search:    strings.TrimSpace(f.Search),
		Location:  strings.TrimSpace(f.Location),
		Type:      models.JobType(f.Type),
		SalaryMin: ParseSalary(f.SalaryMin),
		SalaryMax: ParseSalary(f.SalaryMax),
		Status:    models.JobStatusOpen,
		SortBy:    f.SortBy,
		Order:     f.Order,
		Page:      f.Page,
		Limit:     f.Limit,
	}
}

// ParseSalary reads a salary typed with thousands dots and a decimal comma
// ("12.500,50"). Unparseable input yields nil.
func ParseSalary(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	clean := strings.ReplaceAll(value, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return nil
	}
	return &v
}
