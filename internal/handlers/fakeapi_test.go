package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/talent-portal/internal/dtos"
	"github.com/justsurfingit/talent-portal/internal/models"
)

type account struct {
	user     models.User
	password string
}

// fakeAPI is an in-memory stand-in for the recruitment API.
type fakeAPI struct {
	mu       sync.Mutex
	accounts map[string]*account
	tokens   map[string]models.User
	jobs     []models.Job
	apps     []models.Application

	failList   bool
	loginCalls int
	lastQuery  url.Values
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		accounts: make(map[string]*account),
		tokens:   make(map[string]models.User),
	}
}

func (f *fakeAPI) addUser(email, password string, role models.Role) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := models.User{ID: uuid.New(), Email: email, Role: role, CreatedAt: time.Now()}
	f.accounts[email] = &account{user: u, password: password}
	return u
}

func (f *fakeAPI) addJob(recruiter models.User, title string, status models.JobStatus) models.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	salary := 8500.0
	j := models.Job{
		ID:          uuid.New(),
		RecruiterID: recruiter.ID,
		Title:       title,
		Description: title + " description",
		Salary:      &salary,
		Location:    "São Paulo, SP",
		Type:        models.JobTypeRemote,
		Status:      status,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.jobs = append(f.jobs, j)
	return j
}

func (f *fakeAPI) addApplication(job models.Job, candidate models.User) models.Application {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := candidate
	a := models.Application{
		ID:          uuid.New(),
		JobID:       job.ID,
		CandidateID: candidate.ID,
		Status:      models.ApplicationPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Candidate:   &c,
	}
	f.apps = append(f.apps, a)
	return a
}

func (f *fakeAPI) applicationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.apps)
}

func (f *fakeAPI) setFailList(v bool) {
	f.mu.Lock()
	f.failList = v
	f.mu.Unlock()
}

func (f *fakeAPI) logins() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls
}

func (f *fakeAPI) query() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func apiError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (f *fakeAPI) issue(u models.User) models.AuthResponse {
	token := "tok-" + uuid.NewString()
	f.tokens[token] = u
	return models.AuthResponse{AccessToken: token, RefreshToken: "ref-" + token, User: u}
}

// caller resolves the bearer token; f.mu must be held.
func (f *fakeAPI) caller(r *http.Request) (models.User, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	u, ok := f.tokens[token]
	return u, ok
}

func (f *fakeAPI) jobIndex(id string) int {
	for i, j := range f.jobs {
		if j.ID.String() == id {
			return i
		}
	}
	return -1
}

func (f *fakeAPI) Handler() http.Handler {
	mux := http.NewServeMux()
	const p = "/api/v1"

	mux.HandleFunc("POST "+p+"/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req dtos.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.loginCalls++
		acc, ok := f.accounts[req.Email]
		if !ok || acc.password != req.Password {
			apiError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeJSON(w, http.StatusOK, f.issue(acc.user))
	})

	mux.HandleFunc("POST "+p+"/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req dtos.RegisterRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, exists := f.accounts[req.Email]; exists {
			apiError(w, http.StatusConflict, "email already registered")
			return
		}
		u := models.User{ID: uuid.New(), Email: req.Email, Role: req.Role, CreatedAt: time.Now()}
		f.accounts[req.Email] = &account{user: u, password: req.Password}
		writeJSON(w, http.StatusCreated, f.issue(u))
	})

	mux.HandleFunc("GET "+p+"/auth/me", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		u, ok := f.caller(r)
		if !ok {
			apiError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		writeJSON(w, http.StatusOK, u)
	})

	mux.HandleFunc("GET "+p+"/jobs", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.lastQuery = r.URL.Query()
		if f.failList {
			apiError(w, http.StatusInternalServerError, "database unavailable")
			return
		}
		jobs := []models.Job{}
		for _, j := range f.jobs {
			if s := r.URL.Query().Get("status"); s != "" && string(j.Status) != s {
				continue
			}
			jobs = append(jobs, j)
		}
		writeJSON(w, http.StatusOK, models.JobListResponse{Jobs: jobs, Total: int64(len(jobs)), Page: 1, Limit: 10})
	})

	mux.HandleFunc("GET "+p+"/jobs/my-jobs", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		u, ok := f.caller(r)
		if !ok {
			apiError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		jobs := []models.Job{}
		for _, j := range f.jobs {
			if j.RecruiterID == u.ID {
				jobs = append(jobs, j)
			}
		}
		writeJSON(w, http.StatusOK, jobs)
	})

	mux.HandleFunc("GET "+p+"/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		i := f.jobIndex(r.PathValue("id"))
		if i < 0 {
			apiError(w, http.StatusNotFound, "job not found")
			return
		}
		writeJSON(w, http.StatusOK, f.jobs[i])
	})

	mux.HandleFunc("GET "+p+"/jobs/{id}/applications", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.jobIndex(r.PathValue("id")) < 0 {
			apiError(w, http.StatusNotFound, "job not found")
			return
		}
		apps := []models.Application{}
		for _, a := range f.apps {
			if a.JobID.String() == r.PathValue("id") {
				apps = append(apps, a)
			}
		}
		writeJSON(w, http.StatusOK, apps)
	})

	mux.HandleFunc("POST "+p+"/jobs", func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CreateJobRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		u, ok := f.caller(r)
		if !ok || u.Role != models.RoleAdmin {
			apiError(w, http.StatusForbidden, "forbidden")
			return
		}
		j := models.Job{
			ID: uuid.New(), RecruiterID: u.ID, Title: req.Title, Description: req.Description,
			Salary: req.Salary, Location: req.Location, Type: req.Type, Status: models.JobStatusOpen,
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}
		f.jobs = append(f.jobs, j)
		writeJSON(w, http.StatusCreated, j)
	})

	mux.HandleFunc("PUT "+p+"/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req dtos.UpdateJobRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		i := f.jobIndex(r.PathValue("id"))
		if i < 0 {
			apiError(w, http.StatusNotFound, "job not found")
			return
		}
		j := &f.jobs[i]
		if req.Title != nil {
			j.Title = *req.Title
		}
		if req.Status != nil {
			j.Status = *req.Status
		}
		writeJSON(w, http.StatusOK, j)
	})

	mux.HandleFunc("DELETE "+p+"/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		i := f.jobIndex(r.PathValue("id"))
		if i < 0 {
			apiError(w, http.StatusNotFound, "job not found")
			return
		}
		f.jobs = append(f.jobs[:i], f.jobs[i+1:]...)
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("POST "+p+"/applications", func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CreateApplicationRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		u, ok := f.caller(r)
		if !ok {
			apiError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		for _, a := range f.apps {
			if a.JobID == req.JobID && a.CandidateID == u.ID {
				apiError(w, http.StatusConflict, "you have already applied to this job")
				return
			}
		}
		a := models.Application{
			ID: uuid.New(), JobID: req.JobID, CandidateID: u.ID, Status: models.ApplicationPending,
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}
		f.apps = append(f.apps, a)
		writeJSON(w, http.StatusCreated, a)
	})

	mux.HandleFunc("GET "+p+"/applications/my-applications", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		u, ok := f.caller(r)
		if !ok {
			apiError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		apps := []models.Application{}
		for _, a := range f.apps {
			if a.CandidateID == u.ID {
				if i := f.jobIndex(a.JobID.String()); i >= 0 {
					job := f.jobs[i]
					a.Job = &job
				}
				apps = append(apps, a)
			}
		}
		writeJSON(w, http.StatusOK, apps)
	})

	mux.HandleFunc("PUT "+p+"/applications/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req dtos.UpdateApplicationStatusRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.apps {
			if f.apps[i].ID.String() == r.PathValue("id") {
				f.apps[i].Status = req.Status
				writeJSON(w, http.StatusOK, f.apps[i])
				return
			}
		}
		apiError(w, http.StatusNotFound, "application not found")
	})

	return mux
}
