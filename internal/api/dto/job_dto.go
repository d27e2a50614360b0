package dto

type CreateJobRequest struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description" binding:"required"`
	Company        string `json:"company" binding:"required"`
	Location       string `json:"location" binding:"required"`
	JobType        string `json:"job_type" binding:"required,oneof=full-time part-time contract freelance internship"`
	Remote         bool   `json:"remote"`
	SalaryMin      int64  `json:"salary_min"`
	SalaryMax      int64  `json:"salary_max"`
	SalaryCurrency string `json:"salary_currency"`
}

type ListJobsRequest struct {
	Search   string `form:"search"`
	Location string `form:"location"`
	JobType  string `form:"job_type"`
	Remote   *bool  `form:"remote"`
	Status   string `form:"status"`
	PageSize int    `form:"page_size"`
	Cursor   string `form:"cursor"`
}

type ListJobsResponse struct {
	Jobs       []JobDTO `json:"jobs"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

type JobDTO struct {
	JobID          string `json:"job_id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	JobType        string `json:"job_type"`
	Remote         bool   `json:"remote"`
	SalaryMin      int64  `json:"salary_min"`
	SalaryMax      int64  `json:"salary_max"`
	SalaryCurrency string `json:"salary_currency"`
	EmployerID     string `json:"employer_id"`
	Status         string `json:"status"`
	Featured       bool   `json:"featured"`
	Views          int64  `json:"views"`
	IsPaid         bool   `json:"is_paid"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}
