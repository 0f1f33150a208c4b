package usecase

import (
	"context"
	"errors"
	"log/slog"

	"natsu-gallery-backend/internal/domain"
	"natsu-gallery-backend/pkg/email"
	"natsu-gallery-backend/pkg/ratelimit"
	"natsu-gallery-backend/pkg/security"
)

// RateLimiter decides whether a client may submit right now.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}

// MailSender relays one validated submission.
type MailSender interface {
	SendContactEmail(ctx context.Context, data email.ContactEmailData) error
}

type contactUsecase struct {
	limiter   RateLimiter
	validator *ContactValidator
	mailer    MailSender
	log       *slog.Logger
	security  *security.SecurityLogger
}

// NewContactUsecase wires the submission pipeline. log and secLog may be nil.
func NewContactUsecase(limiter RateLimiter, mailer MailSender, log *slog.Logger, secLog *security.SecurityLogger) domain.ContactUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &contactUsecase{
		limiter:   limiter,
		validator: NewContactValidator(),
		mailer:    mailer,
		log:       log,
		security:  secLog,
	}
}

// Submit runs rate check, validation and dispatch in order and stops at the
// first step that fails. Every exit is logged with the stage it reached.
func (uc *contactUsecase) Submit(ctx context.Context, client domain.ClientInfo, payload []byte) (domain.SubmissionResult, error) {
	result := domain.SubmissionResult{Stage: domain.StageReceived}
	log := uc.log.With("request_id", client.RequestID, "client", client.Key)
	meta := security.RequestMeta{IP: client.Key, UserAgent: client.UserAgent, RequestID: client.RequestID}

	decision, err := uc.limiter.Allow(ctx, client.Key)
	if err != nil {
		log.Error("contact submission rejected: rate limiter unavailable", "stage", result.Stage, "error", err)
		return result, err
	}
	result.RateLimit = &decision
	if !decision.Allowed {
		uc.security.LogRateLimitTriggered(ctx, meta, client.Endpoint)
		log.Warn("contact submission rejected: rate limited", "stage", result.Stage, "reset_at", decision.ResetAt)
		return result, domain.ErrRateLimited
	}
	result.Stage = domain.StageRateChecked

	sub, err := uc.validator.Validate(payload)
	if err != nil {
		var verrs domain.ValidationErrors
		errors.As(err, &verrs)
		uc.security.LogValidationFailed(ctx, meta, verrs.Fields())
		log.Info("contact submission rejected: invalid payload", "stage", result.Stage, "fields", verrs.Fields())
		return result, err
	}
	result.Stage = domain.StageValidated

	err = uc.mailer.SendContactEmail(ctx, email.ContactEmailData{
		Name:        sub.Name,
		Email:       sub.Email,
		InquiryType: string(sub.InquiryType),
		Details:     sub.Details,
	})
	if err != nil {
		reason := "unknown"
		var de *email.DispatchError
		if errors.As(err, &de) {
			reason = string(de.Reason)
		}
		uc.security.LogDispatchFailed(ctx, meta, sub.Email, reason)
		log.Error("contact email dispatch failed",
			"stage", result.Stage,
			"inquiry_type", sub.InquiryType,
			"email", security.MaskEmail(sub.Email),
			"error", err,
		)
		return result, err
	}
	result.Stage = domain.StageDispatched

	uc.security.LogSubmissionAccepted(ctx, meta, sub.Email, string(sub.InquiryType))
	log.Info("contact submission dispatched",
		"stage", result.Stage,
		"inquiry_type", sub.InquiryType,
		"email", security.MaskEmail(sub.Email),
	)
	return result, nil
}
