package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ykrishnateja01/job-portal/internal/api/domain"
	"github.com/ykrishnateja01/job-portal/internal/api/dto"
	"github.com/ykrishnateja01/job-portal/internal/api/model"
	"github.com/ykrishnateja01/job-portal/internal/api/storage"
)

// ContextUserKey is where AuthMiddleware stores the authenticated user.
const ContextUserKey = "current_user"

// JobHandler handles job posting HTTP requests
type JobHandler struct {
	logger  *slog.Logger
	storage *storage.JobStorage
}

func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:  deps.Logger,
		storage: deps.Jobs,
	}
}

func currentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}

// CreateJob handles POST /api/v1/jobs
// Jobs start out paused and unpaid; a verified payment activates them.
func (h *JobHandler) CreateJob(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if user.Role != domain.RoleEmployer && user.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "only employers can post jobs"})
		return
	}

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	if req.SalaryMax < req.SalaryMin {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "salary_max must be >= salary_min",
		})
		return
	}

	if req.SalaryCurrency == "" {
		req.SalaryCurrency = "USD"
	}

	now := time.Now()
	job := model.Job{
		JobID:          uuid.New().String(),
		Title:          req.Title,
		Description:    req.Description,
		Company:        req.Company,
		Location:       req.Location,
		JobType:        req.JobType,
		Remote:         req.Remote,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		SalaryCurrency: req.SalaryCurrency,
		EmployerID:     user.UserID,
		Status:         domain.JobStatusPaused,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.storage.CreateJob(c.Request.Context(), &job); err != nil {
		h.logger.Error("Failed to create job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create job",
		})
		return
	}

	h.logger.Info("Job created",
		slog.String("job_id", job.JobID),
		slog.String("employer_id", user.UserID),
	)

	c.JSON(http.StatusCreated, toJobDTO(&job))
}

// GetJob handles GET /api/v1/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")

	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "job_id must be a valid UUID",
		})
		return
	}

	job, err := h.storage.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		h.logger.Error("Failed to get job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get job",
		})
		return
	}

	// Best effort; a lost view count never fails the read.
	if err := h.storage.IncrementViews(c.Request.Context(), jobID); err != nil {
		h.logger.Warn("Failed to increment views",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
	} else {
		job.Views++
	}

	c.JSON(http.StatusOK, toJobDTO(job))
}

// ListJobs handles GET /api/v1/jobs
// Lists jobs with optional filtering and cursor pagination. Only active
// listings are shown unless a status filter is given.
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	if req.PageSize > 100 {
		req.PageSize = 100
	}

	if req.Status == "" {
		req.Status = domain.JobStatusActive
	}

	cursor, err := DecodeJobCursor(req.Cursor)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cursor",
		})
		return
	}

	filter := storage.JobFilter{
		Search:   req.Search,
		Location: req.Location,
		JobType:  req.JobType,
		Remote:   req.Remote,
		Status:   req.Status,
		PageSize: req.PageSize,
		Cursor:   cursor,
	}

	jobs, err := h.storage.ListJobs(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list jobs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list jobs",
		})
		return
	}

	hasMore := len(jobs) > req.PageSize
	if hasMore {
		jobs = jobs[:req.PageSize]
	}

	jobResponse := make([]dto.JobDTO, len(jobs))
	for i := range jobs {
		jobResponse[i] = *toJobDTO(&jobs[i])
	}

	var nextCursor string
	if hasMore {
		lastJob := jobs[len(jobs)-1]
		cursorObj := storage.JobCursor{
			CreatedAt: lastJob.CreatedAt,
			JobID:     lastJob.JobID,
		}
		nextCursor, err = EncodeJobCursor(&cursorObj)
		if err != nil {
			h.logger.Error("Failed to encode next cursor", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to encode next cursor",
			})
			return
		}
	}

	c.JSON(http.StatusOK, dto.ListJobsResponse{
		Jobs:       jobResponse,
		NextCursor: nextCursor,
	})
}

// CloseJob handles POST /api/v1/jobs/:job_id/close
// Only the posting employer may close their listing.
func (h *JobHandler) CloseJob(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	jobID := c.Param("job_id")
	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "job_id must be a valid UUID",
		})
		return
	}

	err := h.storage.CloseJob(c.Request.Context(), jobID, user.UserID)
	switch {
	case errors.Is(err, domain.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
	case errors.Is(err, domain.ErrNotJobOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the job owner"})
	case err != nil:
		h.logger.Error("Failed to close job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to close job",
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"job_id": jobID,
			"status": domain.JobStatusClosed,
		})
	}
}

func toJobDTO(job *model.Job) *dto.JobDTO {
	return &dto.JobDTO{
		JobID:          job.JobID,
		Title:          job.Title,
		Description:    job.Description,
		Company:        job.Company,
		Location:       job.Location,
		JobType:        job.JobType,
		Remote:         job.Remote,
		SalaryMin:      job.SalaryMin,
		SalaryMax:      job.SalaryMax,
		SalaryCurrency: job.SalaryCurrency,
		EmployerID:     job.EmployerID,
		Status:         job.Status,
		Featured:       job.Featured,
		Views:          job.Views,
		IsPaid:         job.IsPaid,
		CreatedAt:      job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      job.UpdatedAt.Format(time.RFC3339),
	}
}
