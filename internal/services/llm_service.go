package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/justsurfingit/talent-portal/internal/dtos"
	"github.com/justsurfingit/talent-portal/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const maxPostingChars = 20000

const jobDraftPrompt = `
You are an expert Job Data Extraction Agent. Your task is to analyze the provided raw HTML/Text from a job posting and extract structured data.

### INSTRUCTIONS:
1. **Analyze** the text to identify the core job details.
2. **Ignore** navigation menus, footers, "similar jobs" lists, and site advertisements.
3. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "title": "Job title (e.g., Senior Backend Engineer)",
    "description": "A clean summary of the job. Focus on Responsibilities and Requirements. Remove HTML tags.",
    "location": "Job location or 'Remote'",
    "type": "one of: remote, onsite, hybrid",
    "salary": "Monthly salary as a plain number if explicitly mentioned, otherwise null"
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not hallucinate or guess.

### RAW CONTENT:
%s
`

// ErrImportDisabled is returned when no model is configured.
var ErrImportDisabled = errors.New("llm: job import is not configured")

type LLMService struct {
	Client llms.Model
}

// NewLLMService builds the Gemini-backed extractor. An empty key yields a
// service whose calls return ErrImportDisabled.
func NewLLMService(ctx context.Context, apiKey, model string) (*LLMService, error) {
	if apiKey == "" {
		return &LLMService{}, nil
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("llm: create gemini client: %w", err)
	}
	return &LLMService{Client: llm}, nil
}

func (s *LLMService) Enabled() bool {
	return s != nil && s.Client != nil
}

// ExtractJobDraft reads a pasted posting and returns a pre-filled job form.
func (s *LLMService) ExtractJobDraft(ctx context.Context, raw string) (dtos.JobForm, error) {
	if !s.Enabled() {
		return dtos.JobForm{}, ErrImportDisabled
	}
	raw = truncatePosting(raw, maxPostingChars)
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, fmt.Sprintf(jobDraftPrompt, raw))
	if err != nil {
		return dtos.JobForm{}, fmt.Errorf("llm: generate: %w", err)
	}
	return parseJobDraft(resp)
}

// truncatePosting cuts raw to at most n bytes without splitting a rune.
func truncatePosting(raw string, n int) string {
	if len(raw) <= n {
		return raw
	}
	for n > 0 && !utf8.RuneStart(raw[n]) {
		n--
	}
	return raw[:n]
}

func parseJobDraft(resp string) (dtos.JobForm, error) {
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")

	var draft struct {
		Title       *string         `json:"title"`
		Description *string         `json:"description"`
		Location    *string         `json:"location"`
		Type        *string         `json:"type"`
		Salary      json.RawMessage `json:"salary"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp)), &draft); err != nil {
		return dtos.JobForm{}, fmt.Errorf("llm: parse draft: %w", err)
	}

	form := dtos.NewJobForm()
	if draft.Title != nil {
		form.Title = *draft.Title
	}
	if draft.Description != nil {
		form.Description = *draft.Description
	}
	if draft.Location != nil {
		form.Location = *draft.Location
	}
	if draft.Type != nil {
		switch t := models.JobType(strings.ToLower(*draft.Type)); t {
		case models.JobTypeRemote, models.JobTypeOnsite, models.JobTypeHybrid:
			form.Type = string(t)
		}
	}
	form.Salary = draftSalary(draft.Salary)
	return form, nil
}

// draftSalary accepts the salary as a JSON number or a numeric string.
func draftSalary(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v := dtos.ParseSalary(s); v != nil {
			return strconv.FormatFloat(*v, 'f', -1, 64)
		}
	}
	return ""
}
