package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nayan-ray/bookingd/internal/settings"
)

type settingsDocument struct {
	BusinessName    string `json:"business_name"`
	BusinessAddress string `json:"business_address"`
	BusinessPhone   string `json:"business_phone"`
	BusinessEmail   string `json:"business_email"`
	BusinessHours   string `json:"business_hours"`

	RecaptchaSiteKey   string `json:"recaptcha_site_key"`
	RecaptchaSecretKey string `json:"recaptcha_secret_key"`

	AdminNotification bool   `json:"admin_notification"`
	AdminEmail        string `json:"admin_email"`

	UserConfirmation    bool   `json:"user_confirmation"`
	ConfirmationSubject string `json:"confirmation_email_subject"`
	ConfirmationMessage string `json:"confirmation_email_message"`

	CustomCSS  string `json:"custom_css"`
	MapsAPIKey string `json:"google_maps_api_key"`

	ServiceOptions string `json:"service_options"`
	MinDaysAdvance int    `json:"min_days_advance"`
	MaxDaysAdvance int    `json:"max_days_advance"`

	SuccessMessage string `json:"success_message"`
	ErrorMessage   string `json:"error_message"`
}

func documentFrom(cfg settings.Settings) settingsDocument {
	return settingsDocument{
		BusinessName:        cfg.BusinessName,
		BusinessAddress:     cfg.BusinessAddress,
		BusinessPhone:       cfg.BusinessPhone,
		BusinessEmail:       cfg.BusinessEmail,
		BusinessHours:       cfg.BusinessHours,
		RecaptchaSiteKey:    cfg.RecaptchaSiteKey,
		RecaptchaSecretKey:  cfg.RecaptchaSecretKey,
		AdminNotification:   cfg.AdminNotification,
		AdminEmail:          cfg.AdminEmail,
		UserConfirmation:    cfg.UserConfirmation,
		ConfirmationSubject: cfg.ConfirmationSubject,
		ConfirmationMessage: cfg.ConfirmationMessage,
		CustomCSS:           cfg.CustomCSS,
		MapsAPIKey:          cfg.MapsAPIKey,
		ServiceOptions:      cfg.ServiceOptions,
		MinDaysAdvance:      cfg.MinDaysAdvance,
		MaxDaysAdvance:      cfg.MaxDaysAdvance,
		SuccessMessage:      cfg.SuccessMessage,
		ErrorMessage:        cfg.ErrorMessage,
	}
}

func (d settingsDocument) toSettings() settings.Settings {
	return settings.Settings{
		BusinessName:        d.BusinessName,
		BusinessAddress:     d.BusinessAddress,
		BusinessPhone:       d.BusinessPhone,
		BusinessEmail:       d.BusinessEmail,
		BusinessHours:       d.BusinessHours,
		RecaptchaSiteKey:    d.RecaptchaSiteKey,
		RecaptchaSecretKey:  d.RecaptchaSecretKey,
		AdminNotification:   d.AdminNotification,
		AdminEmail:          d.AdminEmail,
		UserConfirmation:    d.UserConfirmation,
		ConfirmationSubject: d.ConfirmationSubject,
		ConfirmationMessage: d.ConfirmationMessage,
		CustomCSS:           d.CustomCSS,
		MapsAPIKey:          d.MapsAPIKey,
		ServiceOptions:      d.ServiceOptions,
		MinDaysAdvance:      d.MinDaysAdvance,
		MaxDaysAdvance:      d.MaxDaysAdvance,
		SuccessMessage:      d.SuccessMessage,
		ErrorMessage:        d.ErrorMessage,
	}
}

// Settings handles GET and PUT on /api/v1/admin/settings. PUT replaces
// the whole document; type coercion happened at decode, and beyond the
// day-count sanity check no per-field validation is applied.
func (h *AdminHandler) Settings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg, err := h.cfg.Load(r.Context())
		if err != nil {
			h.logger.Error("settings load failed", "err", err)
			http.Error(w, "failed to load settings", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, documentFrom(cfg))

	case http.MethodPut:
		var doc settingsDocument
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		if doc.MinDaysAdvance < 0 || doc.MaxDaysAdvance < 0 {
			http.Error(w, "day counts must not be negative", http.StatusBadRequest)
			return
		}
		if err := h.cfg.Save(r.Context(), doc.toSettings()); err != nil {
			h.logger.Error("settings save failed", "err", err)
			http.Error(w, "failed to save settings", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
