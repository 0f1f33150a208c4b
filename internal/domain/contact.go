package domain

import (
	"context"
	"errors"
	"strings"

	"natsu-gallery-backend/pkg/ratelimit"
	"natsu-gallery-backend/pkg/validation"
)

// InquiryType is the kind of work a visitor asks about.
type InquiryType string

const (
	InquiryColumnWriting InquiryType = "Column writing"
	InquiryCreateSweets  InquiryType = "Create sweets"
	InquiryFoodStyling   InquiryType = "Food styling"
	InquiryOther         InquiryType = "Other"
)

// InquiryTypes lists every accepted inquiry type in form order.
var InquiryTypes = []InquiryType{
	InquiryColumnWriting,
	InquiryCreateSweets,
	InquiryFoodStyling,
	InquiryOther,
}

func (t InquiryType) Valid() bool {
	for _, it := range InquiryTypes {
		if t == it {
			return true
		}
	}
	return false
}

// ContactRequest is the raw JSON body of POST /api/contact.
type ContactRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	InquiryType string `json:"inquiryType" validate:"required,inquiry_type"`
	Details     string `json:"details" validate:"required,min=10,max=1000"`
}

// ContactSubmission is a contact form that passed validation. Name and
// Details are trimmed and HTML-escaped, Email is normalized. Only the
// contact validator builds one.
type ContactSubmission struct {
	Name        string
	Email       string
	InquiryType InquiryType
	Details     string
}

type FieldError = validation.FieldError

// ValidationErrors lists every field that failed validation.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for _, fe := range v {
		fields = append(fields, fe.Field)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

func (v ValidationErrors) Fields() []string {
	out := make([]string, 0, len(v))
	for _, fe := range v {
		out = append(out, fe.Field)
	}
	return out
}

var ErrRateLimited = errors.New("rate limit exceeded")

// Stage is how far a submission got through the pipeline.
type Stage string

const (
	StageReceived    Stage = "received"
	StageRateChecked Stage = "rate_checked"
	StageValidated   Stage = "validated"
	StageDispatched  Stage = "dispatched"
)

// SubmissionResult describes a finished submission attempt. RateLimit is nil
// when the limiter could not be consulted.
type SubmissionResult struct {
	Stage     Stage
	RateLimit *ratelimit.Decision
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// Submit runs rate check, validation and dispatch for one raw JSON payload.
	// The returned error is ErrRateLimited, ValidationErrors, a *email.DispatchError
	// or a wrapped ratelimit.ErrStoreUnavailable.
	Submit(ctx context.Context, client ClientInfo, payload []byte) (SubmissionResult, error)
}

// ClientInfo identifies the caller for rate limiting and logs.
type ClientInfo struct {
	Key       string
	RequestID string
	Endpoint  string
	UserAgent string
}
