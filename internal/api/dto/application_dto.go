package dto

type ApplyRequest struct {
	CoverLetter string `json:"cover_letter" binding:"max=1000"`
	ResumeURL   string `json:"resume_url" binding:"omitempty,url"`
}

type ApplicationDTO struct {
	ApplicationID string `json:"application_id"`
	JobID         string `json:"job_id"`
	CoverLetter   string `json:"cover_letter"`
	ResumeURL     string `json:"resume_url"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

// MyApplicationDTO is an application annotated with the listing it targets.
type MyApplicationDTO struct {
	ApplicationDTO
	JobTitle   string `json:"job_title"`
	JobCompany string `json:"job_company"`
	JobStatus  string `json:"job_status"`
}

// ApplicantDTO is an application annotated with the applicant's profile, for
// the employer's view of their listing.
type ApplicantDTO struct {
	ApplicationDTO
	ApplicantName  string `json:"applicant_name"`
	ApplicantEmail string `json:"applicant_email"`
}

type ListMyApplicationsResponse struct {
	Applications []MyApplicationDTO `json:"applications"`
}

type ListApplicantsResponse struct {
	Applications []ApplicantDTO `json:"applications"`
}
