package booking

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/nayan-ray/bookingd/internal/model"
	"github.com/nayan-ray/bookingd/internal/settings"
)

// Field constraints match the public form's client-side rules, enforced
// again here so a crafted request can't bypass them.
var (
	nameRE  = regexp.MustCompile(`^[A-Za-z\s]+$`)
	phoneRE = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// validate trims and checks the submitted fields against the shape rules
// and the configured catalog and booking window. The caller reports any
// failure as the single configured error message; the returned error is
// only for logging.
func validate(req Request, cfg settings.Settings, now time.Time) (*model.AppointmentRecord, error) {
	rec := &model.AppointmentRecord{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Service: strings.TrimSpace(req.Service),
		Date:    strings.TrimSpace(req.Date),
		Time:    strings.TrimSpace(req.Time),
		Notes:   strings.TrimSpace(req.Notes),
	}

	if rec.Name == "" || rec.Email == "" || rec.Phone == "" || rec.Service == "" || rec.Date == "" || rec.Time == "" {
		return nil, errors.New("missing required field")
	}
	if !nameRE.MatchString(rec.Name) {
		return nil, errors.New("name must contain only letters and whitespace")
	}
	addr, err := mail.ParseAddress(rec.Email)
	if err != nil || addr.Address != rec.Email {
		return nil, errors.New("invalid email address")
	}
	if !phoneRE.MatchString(rec.Phone) {
		return nil, errors.New("invalid phone number")
	}

	date, err := time.ParseInLocation(dateLayout, rec.Date, now.Location())
	if err != nil {
		return nil, errors.New("invalid date")
	}
	if _, err := time.Parse(timeLayout, rec.Time); err != nil {
		return nil, errors.New("invalid time")
	}

	if !cfg.HasService(rec.Service) {
		return nil, errors.New("service not in the configured catalog")
	}
	if !cfg.Window(now).Contains(date) {
		return nil, errors.New("date outside the allowed booking window")
	}

	return rec, nil
}
