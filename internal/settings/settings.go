package settings

import (
	"strconv"
	"strings"
	"time"
)

// Settings is the widget's business configuration. Every field has a
// default; a value missing from the store falls back to it. Values are
// coerced from their stored string form once, at load time.
type Settings struct {
	BusinessName    string
	BusinessAddress string
	BusinessPhone   string
	BusinessEmail   string
	BusinessHours   string

	RecaptchaSiteKey   string
	RecaptchaSecretKey string

	AdminNotification bool
	AdminEmail        string // empty means "use the platform admin address"

	UserConfirmation    bool
	ConfirmationSubject string
	ConfirmationMessage string

	CustomCSS  string
	MapsAPIKey string

	ServiceOptions string // newline-delimited catalog
	MinDaysAdvance int
	MaxDaysAdvance int

	SuccessMessage string
	ErrorMessage   string
}

const DefaultConfirmationMessage = "Hi {name},\n\n" +
	"Thank you for booking an appointment.\n\n" +
	"Details:\nService: {service}\nDate: {date}\nTime: {time}\n\n" +
	"Regards,\nYour Team"

func Defaults() Settings {
	return Settings{
		AdminNotification:   true,
		UserConfirmation:    true,
		ConfirmationSubject: "Appointment Confirmation",
		ConfirmationMessage: DefaultConfirmationMessage,
		ServiceOptions:      "Web Design\nWordPress Development\nConsultation",
		MinDaysAdvance:      1,
		MaxDaysAdvance:      30,
		SuccessMessage:      "Appointment submitted successfully!",
		ErrorMessage:        "An error occurred. Please try again.",
	}
}

// ServiceList splits the configured catalog into trimmed, non-empty options.
func (s Settings) ServiceList() []string {
	var out []string
	for _, line := range strings.Split(s.ServiceOptions, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// HasService reports whether name is one of the configured options.
func (s Settings) HasService(name string) bool {
	for _, opt := range s.ServiceList() {
		if opt == name {
			return true
		}
	}
	return false
}

// DateWindow is the allowed booking range, in whole days from today.
type DateWindow struct {
	MinDays int
	MaxDays int
	Min     time.Time
	Max     time.Time
}

// Window computes today's booking window. Days are calendar days in the
// server's location, matching how the form's date picker is bounded.
func (s Settings) Window(now time.Time) DateWindow {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return DateWindow{
		MinDays: s.MinDaysAdvance,
		MaxDays: s.MaxDaysAdvance,
		Min:     today.AddDate(0, 0, s.MinDaysAdvance),
		Max:     today.AddDate(0, 0, s.MaxDaysAdvance),
	}
}

// Contains reports whether date (midnight, same location as the window)
// falls inside [Min, Max].
func (w DateWindow) Contains(date time.Time) bool {
	return !date.Before(w.Min) && !date.After(w.Max)
}

// Store keys. These match the option names the original settings form used,
// so an exported settings dump stays readable.
const (
	keyBusinessName        = "business_name"
	keyBusinessAddress     = "business_address"
	keyBusinessPhone       = "business_phone"
	keyBusinessEmail       = "business_email"
	keyBusinessHours       = "business_hours"
	keyRecaptchaSiteKey    = "recaptcha_site_key"
	keyRecaptchaSecretKey  = "recaptcha_secret_key"
	keyAdminNotification   = "admin_notification"
	keyAdminEmail          = "admin_email"
	keyUserConfirmation    = "user_confirmation"
	keyConfirmationSubject = "confirmation_email_subject"
	keyConfirmationMessage = "confirmation_email_message"
	keyCustomCSS           = "custom_css"
	keyMapsAPIKey          = "google_maps_api_key"
	keyServiceOptions      = "service_options"
	keyMinDaysAdvance      = "min_days_advance"
	keyMaxDaysAdvance      = "max_days_advance"
	keySuccessMessage      = "success_message"
	keyErrorMessage        = "error_message"
)

// fromMap applies stored values over the defaults. Unknown keys are
// ignored; malformed numbers and booleans keep their defaults.
func fromMap(values map[string]string) Settings {
	s := Defaults()
	for key, value := range values {
		switch key {
		case keyBusinessName:
			s.BusinessName = value
		case keyBusinessAddress:
			s.BusinessAddress = value
		case keyBusinessPhone:
			s.BusinessPhone = value
		case keyBusinessEmail:
			s.BusinessEmail = value
		case keyBusinessHours:
			s.BusinessHours = value
		case keyRecaptchaSiteKey:
			s.RecaptchaSiteKey = value
		case keyRecaptchaSecretKey:
			s.RecaptchaSecretKey = value
		case keyAdminNotification:
			s.AdminNotification = parseBool(value, s.AdminNotification)
		case keyAdminEmail:
			s.AdminEmail = value
		case keyUserConfirmation:
			s.UserConfirmation = parseBool(value, s.UserConfirmation)
		case keyConfirmationSubject:
			s.ConfirmationSubject = value
		case keyConfirmationMessage:
			s.ConfirmationMessage = value
		case keyCustomCSS:
			s.CustomCSS = value
		case keyMapsAPIKey:
			s.MapsAPIKey = value
		case keyServiceOptions:
			s.ServiceOptions = value
		case keyMinDaysAdvance:
			s.MinDaysAdvance = parseInt(value, s.MinDaysAdvance)
		case keyMaxDaysAdvance:
			s.MaxDaysAdvance = parseInt(value, s.MaxDaysAdvance)
		case keySuccessMessage:
			s.SuccessMessage = value
		case keyErrorMessage:
			s.ErrorMessage = value
		}
	}
	return s
}

func (s Settings) toMap() map[string]string {
	return map[string]string{
		keyBusinessName:        s.BusinessName,
		keyBusinessAddress:     s.BusinessAddress,
		keyBusinessPhone:       s.BusinessPhone,
		keyBusinessEmail:       s.BusinessEmail,
		keyBusinessHours:       s.BusinessHours,
		keyRecaptchaSiteKey:    s.RecaptchaSiteKey,
		keyRecaptchaSecretKey:  s.RecaptchaSecretKey,
		keyAdminNotification:   formatBool(s.AdminNotification),
		keyAdminEmail:          s.AdminEmail,
		keyUserConfirmation:    formatBool(s.UserConfirmation),
		keyConfirmationSubject: s.ConfirmationSubject,
		keyConfirmationMessage: s.ConfirmationMessage,
		keyCustomCSS:           s.CustomCSS,
		keyMapsAPIKey:          s.MapsAPIKey,
		keyServiceOptions:      s.ServiceOptions,
		keyMinDaysAdvance:      strconv.Itoa(s.MinDaysAdvance),
		keyMaxDaysAdvance:      strconv.Itoa(s.MaxDaysAdvance),
		keySuccessMessage:      s.SuccessMessage,
		keyErrorMessage:        s.ErrorMessage,
	}
}

func parseBool(v string, fallback bool) bool {
	switch strings.TrimSpace(strings.ToLower(v)) {
	case "1", "true":
		return true
	case "0", "false", "":
		return false
	}
	return fallback
}

func formatBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func parseInt(v string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}
