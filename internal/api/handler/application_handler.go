package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ykrishnateja01/job-portal/internal/api/domain"
	"github.com/ykrishnateja01/job-portal/internal/api/dto"
	"github.com/ykrishnateja01/job-portal/internal/api/model"
)

type applicationStore interface {
	CreateApplication(ctx context.Context, app *model.Application) error
	ListByApplicant(ctx context.Context, applicantID string) ([]model.ApplicationWithJob, error)
	ListByJob(ctx context.Context, jobID string) ([]model.ApplicationWithApplicant, error)
}

// ApplicationHandler handles job application HTTP requests
type ApplicationHandler struct {
	logger       *slog.Logger
	applications applicationStore
	jobs         jobReader
}

func NewApplicationHandler(deps *Dependencies) *ApplicationHandler {
	return &ApplicationHandler{
		logger:       deps.Logger,
		applications: deps.Applications,
		jobs:         deps.Jobs,
	}
}

// Apply handles POST /api/v1/jobs/:job_id/apply
// Only active listings accept applications, and each user may apply once per
// job; the storage unique constraint enforces the latter under races.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	jobID := c.Param("job_id")
	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id must be a valid UUID"})
		return
	}

	var req dto.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	job, err := h.jobs.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		h.logger.Error("Failed to load job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply"})
		return
	}

	if job.Status != domain.JobStatusActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job is not accepting applications"})
		return
	}

	if job.EmployerID == user.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot apply to your own listing"})
		return
	}

	now := time.Now()
	app := model.Application{
		ApplicationID: uuid.New().String(),
		JobID:         jobID,
		ApplicantID:   user.UserID,
		CoverLetter:   req.CoverLetter,
		ResumeURL:     req.ResumeURL,
		Status:        domain.ApplicationStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.applications.CreateApplication(c.Request.Context(), &app); err != nil {
		if errors.Is(err, domain.ErrAlreadyApplied) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "already applied for this job"})
			return
		}
		h.logger.Error("Failed to create application", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply"})
		return
	}

	h.logger.Info("Application submitted",
		slog.String("application_id", app.ApplicationID),
		slog.String("job_id", jobID),
		slog.String("applicant_id", user.UserID),
	)

	c.JSON(http.StatusCreated, gin.H{
		"application": toApplicationDTO(&app),
		"message":     "application submitted",
	})
}

// MyApplications handles GET /api/v1/applications/me
func (h *ApplicationHandler) MyApplications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	apps, err := h.applications.ListByApplicant(c.Request.Context(), user.UserID)
	if err != nil {
		h.logger.Error("Failed to list applications", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list applications"})
		return
	}

	resp := dto.ListMyApplicationsResponse{Applications: make([]dto.MyApplicationDTO, len(apps))}
	for i := range apps {
		resp.Applications[i] = dto.MyApplicationDTO{
			ApplicationDTO: toApplicationDTO(&apps[i].Application),
			JobTitle:       apps[i].JobTitle,
			JobCompany:     apps[i].JobCompany,
			JobStatus:      apps[i].JobStatus,
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ListApplicants handles GET /api/v1/jobs/:job_id/applications
// Only the posting employer may see who applied.
func (h *ApplicationHandler) ListApplicants(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	jobID := c.Param("job_id")
	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id must be a valid UUID"})
		return
	}

	job, err := h.jobs.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		h.logger.Error("Failed to load job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list applicants"})
		return
	}

	if job.EmployerID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the job owner"})
		return
	}

	apps, err := h.applications.ListByJob(c.Request.Context(), jobID)
	if err != nil {
		h.logger.Error("Failed to list applicants", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list applicants"})
		return
	}

	resp := dto.ListApplicantsResponse{Applications: make([]dto.ApplicantDTO, len(apps))}
	for i := range apps {
		resp.Applications[i] = dto.ApplicantDTO{
			ApplicationDTO: toApplicationDTO(&apps[i].Application),
			ApplicantName:  apps[i].ApplicantName,
			ApplicantEmail: apps[i].ApplicantEmail,
		}
	}

	c.JSON(http.StatusOK, resp)
}

func toApplicationDTO(app *model.Application) dto.ApplicationDTO {
	return dto.ApplicationDTO{
		ApplicationID: app.ApplicationID,
		JobID:         app.JobID,
		CoverLetter:   app.CoverLetter,
		ResumeURL:     app.ResumeURL,
		Status:        app.Status,
		CreatedAt:     app.CreatedAt.Format(time.RFC3339),
	}
}
