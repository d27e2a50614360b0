package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	UserID        string    `db:"user_id"`
	Name          string    `db:"name"`
	Email         string    `db:"email"`
	PasswordHash  string    `db:"password_hash"`
	Role          string    `db:"role"`
	WalletAddress string    `db:"wallet_address"`
	IsVerified    bool      `db:"is_verified"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type Job struct {
	JobID          string    `db:"job_id"`
	Title          string    `db:"title"`
	Description    string    `db:"description"`
	Company        string    `db:"company"`
	Location       string    `db:"location"`
	JobType        string    `db:"job_type"`
	Remote         bool      `db:"remote"`
	SalaryMin      int64     `db:"salary_min"`
	SalaryMax      int64     `db:"salary_max"`
	SalaryCurrency string    `db:"salary_currency"`
	EmployerID     string    `db:"employer_id"`
	Status         string    `db:"status"`
	Featured       bool      `db:"featured"`
	Views          int64     `db:"views"`
	IsPaid         bool      `db:"is_paid"`
	PaymentHash    string    `db:"payment_hash"`
	Chain          string    `db:"chain"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type Application struct {
	ApplicationID string    `db:"application_id"`
	JobID         string    `db:"job_id"`
	ApplicantID   string    `db:"applicant_id"`
	CoverLetter   string    `db:"cover_letter"`
	ResumeURL     string    `db:"resume_url"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// ApplicationWithJob joins an application onto the listing it targets, for the
// applicant's own history view.
type ApplicationWithJob struct {
	Application
	JobTitle   string `db:"job_title"`
	JobCompany string `db:"job_company"`
	JobStatus  string `db:"job_status"`
}

// ApplicationWithApplicant joins an application onto the applicant's profile,
// for the employer's per-job view.
type ApplicationWithApplicant struct {
	Application
	ApplicantName  string `db:"applicant_name"`
	ApplicantEmail string `db:"applicant_email"`
}

// Payment is one row in the on-chain payment ledger. Amounts are kept in the
// chain's smallest unit (wei, lamports) so they never lose precision.
type Payment struct {
	PaymentID       string          `db:"payment_id"`
	UserID          string          `db:"user_id"`
	JobID           *string         `db:"job_id"`
	Amount          decimal.Decimal `db:"amount"`
	Currency        string          `db:"currency"`
	Chain           string          `db:"chain"`
	TransactionHash string          `db:"transaction_hash"`
	WalletAddress   string          `db:"wallet_address"`
	Status          string          `db:"status"`
	Purpose         string          `db:"purpose"`
	BlockNumber     int64           `db:"block_number"`
	GasUsed         int64           `db:"gas_used"`
	GasFee          decimal.Decimal `db:"gas_fee"`
	CreatedAt       time.Time       `db:"created_at"`
}
