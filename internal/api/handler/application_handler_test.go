package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykrishnateja01/job-portal/internal/api/domain"
	"github.com/ykrishnateja01/job-portal/internal/api/model"
)

const (
	testJobID      = "b3e5a1ce-8a55-4b38-9a40-df45a8f9c001"
	testEmployerID = "employer-1"
)

type stubApplications struct {
	createErr error
	created   *model.Application
	byJob     []model.ApplicationWithApplicant
}

func (s *stubApplications) CreateApplication(ctx context.Context, app *model.Application) error {
	s.created = app
	return s.createErr
}

func (s *stubApplications) ListByApplicant(ctx context.Context, applicantID string) ([]model.ApplicationWithJob, error) {
	return nil, nil
}

func (s *stubApplications) ListByJob(ctx context.Context, jobID string) ([]model.ApplicationWithApplicant, error) {
	return s.byJob, nil
}

type stubJobs struct {
	job *model.Job
	err error
}

func (s *stubJobs) GetJobByID(ctx context.Context, jobID string) (*model.Job, error) {
	return s.job, s.err
}

func newApplicationTestHandler(apps *stubApplications, jobs *stubJobs) *ApplicationHandler {
	return &ApplicationHandler{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		applications: apps,
		jobs:         jobs,
	}
}

func applicationRequest(t *testing.T, method, target, body, userID string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "job_id", Value: testJobID}}
	c.Set(ContextUserKey, &model.User{UserID: userID, Role: domain.RoleUser})

	return w, c
}

func activeJob() *model.Job {
	return &model.Job{
		JobID:      testJobID,
		EmployerID: testEmployerID,
		Status:     domain.JobStatusActive,
	}
}

func TestApply(t *testing.T) {
	target := "/api/v1/jobs/" + testJobID + "/apply"

	t.Run("submits an application", func(t *testing.T) {
		apps := &stubApplications{}
		h := newApplicationTestHandler(apps, &stubJobs{job: activeJob()})

		w, c := applicationRequest(t, http.MethodPost, target, `{"cover_letter":"hello"}`, "applicant-1")
		h.Apply(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, apps.created)
		assert.Equal(t, testJobID, apps.created.JobID)
		assert.Equal(t, "applicant-1", apps.created.ApplicantID)
		assert.Equal(t, domain.ApplicationStatusPending, apps.created.Status)
	})

	t.Run("rejects a second application for the same job", func(t *testing.T) {
		apps := &stubApplications{createErr: domain.ErrAlreadyApplied}
		h := newApplicationTestHandler(apps, &stubJobs{job: activeJob()})

		w, c := applicationRequest(t, http.MethodPost, target, `{}`, "applicant-1")
		h.Apply(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already applied")
	})

	t.Run("rejects a paused listing", func(t *testing.T) {
		job := activeJob()
		job.Status = domain.JobStatusPaused
		h := newApplicationTestHandler(&stubApplications{}, &stubJobs{job: job})

		w, c := applicationRequest(t, http.MethodPost, target, `{}`, "applicant-1")
		h.Apply(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "not accepting applications")
	})

	t.Run("rejects applying to own listing", func(t *testing.T) {
		h := newApplicationTestHandler(&stubApplications{}, &stubJobs{job: activeJob()})

		w, c := applicationRequest(t, http.MethodPost, target, `{}`, testEmployerID)
		h.Apply(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown job", func(t *testing.T) {
		h := newApplicationTestHandler(&stubApplications{}, &stubJobs{err: domain.ErrJobNotFound})

		w, c := applicationRequest(t, http.MethodPost, target, `{}`, "applicant-1")
		h.Apply(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListApplicants(t *testing.T) {
	target := "/api/v1/jobs/" + testJobID + "/applications"

	t.Run("owner sees applicants", func(t *testing.T) {
		apps := &stubApplications{byJob: []model.ApplicationWithApplicant{{
			Application:    model.Application{ApplicationID: "app-1", JobID: testJobID},
			ApplicantName:  "Ada",
			ApplicantEmail: "ada@example.com",
		}}}
		h := newApplicationTestHandler(apps, &stubJobs{job: activeJob()})

		w, c := applicationRequest(t, http.MethodGet, target, "", testEmployerID)
		h.ListApplicants(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ada@example.com")
	})

	t.Run("non-owner is refused", func(t *testing.T) {
		h := newApplicationTestHandler(&stubApplications{}, &stubJobs{job: activeJob()})

		w, c := applicationRequest(t, http.MethodGet, target, "", "someone-else")
		h.ListApplicants(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
