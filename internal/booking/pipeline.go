package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/nayan-ray/bookingd/internal/captcha"
	"github.com/nayan-ray/bookingd/internal/model"
	"github.com/nayan-ray/bookingd/internal/settings"
)

// SubmitAction scopes the anti-forgery token issued to the public form.
const SubmitAction = "submit_appointment"

// Fixed responses for failures that happen before the configured
// messages are applicable or that must not leak detail.
const (
	msgSecurityFailed    = "Security check failed."
	msgCaptchaFailed     = "Captcha verification failed."
	msgSaveFailed        = "Failed to save appointment."
	fallbackErrorMessage = "An error occurred. Please try again."
)

// Request carries one submission's form fields plus its tokens.
type Request struct {
	Name    string
	Email   string
	Phone   string
	Service string
	Date    string
	Time    string
	Notes   string

	CaptchaToken string
	Nonce        string
}

// FailureKind classifies why a submission was rejected. Notification
// problems never appear here: once the record is saved the submission
// has succeeded.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureSecurity
	FailureValidation
	FailureVerification
	FailureStore
)

// Result is what the submitter sees: a single success or failure message.
type Result struct {
	OK      bool
	Message string
	Failure FailureKind
	Record  *model.AppointmentRecord
}

type RecordStore interface {
	Insert(ctx context.Context, rec *model.AppointmentRecord) (int64, error)
}

type SettingsSource interface {
	Load(ctx context.Context) (settings.Settings, error)
}

type Notifier interface {
	NotifyOperator(ctx context.Context, cfg settings.Settings, rec *model.AppointmentRecord) error
	NotifyUser(ctx context.Context, cfg settings.Settings, rec *model.AppointmentRecord) error
}

type NonceChecker interface {
	Verify(token, action string) bool
}

/// Pipeline runs one submission end to end: security check, field
// validation, human verification, persistence, then notifications.
// Every gate short-circuits; every external call is attempted once.
type Pipeline struct {
	store    RecordStore
	cfg      SettingsSource
	verifier captcha.Verifier
	notifier Notifier
	nonces   NonceChecker
	logger   *slog.Logger
	now      func() time.Time
}

func NewPipeline(store RecordStore, cfg SettingsSource, verifier captcha.Verifier, notifier Notifier, nonces NonceChecker, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		store:    store,
		cfg:      cfg,
		verifier: verifier,
		notifier: notifier,
		nonces:   nonces,
		logger:   logger,
		now:      time.Now,
	}
}

func (p *Pipeline) Submit(ctx context.Context, req Request) Result {
	if !p.nonces.Verify(req.Nonce, SubmitAction) {
		p.logger.Warn("submission rejected: bad nonce")
		return Result{Message: msgSecurityFailed, Failure: FailureSecurity}
	}

	cfg, err := p.cfg.Load(ctx)
	if err != nil {
		p.logger.Error("settings load failed", "err", err)
		return Result{Message: fallbackErrorMessage, Failure: FailureStore}
	}

	rec, verr := validate(req, cfg, p.now())
	if verr != nil {
		p.logger.Info("submission rejected: invalid fields", "reason", verr.Error())
		return Result{Message: cfg.ErrorMessage, Failure: FailureValidation}
	}

	if !p.verifier.Verify(ctx, cfg.RecaptchaSecretKey, req.CaptchaToken) {
		return Result{Message: msgCaptchaFailed, Failure: FailureVerification}
	}

	id, err := p.store.Insert(ctx, rec)
	if err != nil {
		p.logger.Error("appointment insert failed", "err", err)
		return Result{Message: msgSaveFailed, Failure: FailureStore}
	}
	rec.ID = id

	// The record exists; from here the submission is a success no matter
	// what the mail transport does. Failures are logged and swallowed.
	if cfg.AdminNotification {
		if err := p.notifier.NotifyOperator(ctx, cfg, rec); err != nil {
			p.logger.Warn("operator notification failed", "appointment_id", id, "err", err)
		}
	}
	if cfg.UserConfirmation {
		if err := p.notifier.NotifyUser(ctx, cfg, rec); err != nil {
			p.logger.Warn("user confirmation failed", "appointment_id", id, "err", err)
		}
	}

	return Result{OK: true, Message: cfg.SuccessMessage, Record: rec}
}
