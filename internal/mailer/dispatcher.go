package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/nayan-ray/bookingd/internal/model"
	"github.com/nayan-ray/bookingd/internal/settings"
)

const operatorSubject = "New Appointment Booking"

// Dispatcher renders and sends the two booking notifications. Each send
// is independent; errors come back to the caller, which is free to
// ignore them (the submission pipeline does, once the record is saved).
type Dispatcher struct {
	sender        Sender
	fallbackAdmin string
}

func NewDispatcher(sender Sender, fallbackAdmin string) *Dispatcher {
	return &Dispatcher{
		sender:        sender,
		fallbackAdmin: strings.TrimSpace(fallbackAdmin),
	}
}

// NotifyOperator sends the fixed-format alert to the configured admin
// address, or the platform fallback when none is configured.
func (d *Dispatcher) NotifyOperator(ctx context.Context, cfg settings.Settings, rec *model.AppointmentRecord) error {
	to := strings.TrimSpace(cfg.AdminEmail)
	if to == "" {
		to = d.fallbackAdmin
	}
	body := fmt.Sprintf(
		"Name: %s\nEmail: %s\nPhone: %s\nService: %s\nDate: %s\nTime: %s\nNotes: %s",
		rec.Name, rec.Email, rec.Phone, rec.Service, rec.Date, rec.Time, rec.Notes,
	)
	return d.sender.Send(ctx, to, operatorSubject, body)
}

// NotifyUser sends the templated confirmation to the submitter.
func (d *Dispatcher) NotifyUser(ctx context.Context, cfg settings.Settings, rec *model.AppointmentRecord) error {
	body := RenderConfirmation(cfg.ConfirmationMessage, rec)
	return d.sender.Send(ctx, rec.Email, cfg.ConfirmationSubject, body)
}
