package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/nayan-ray/bookingd/internal/booking"
	"github.com/nayan-ray/bookingd/internal/nonce"
	"github.com/nayan-ray/bookingd/internal/settings"
)

// SettingsStore is the settings access the handlers need.
type SettingsStore interface {
	Load(ctx context.Context) (settings.Settings, error)
	Save(ctx context.Context, cfg settings.Settings) error
}

// PublicHandler serves the embeddable form's two endpoints: the render
// configuration the widget needs, and the submission itself.
type PublicHandler struct {
	pipeline *booking.Pipeline
	cfg      SettingsStore
	nonces   *nonce.Service
	logger   *slog.Logger
}

func NewPublicHandler(pipeline *booking.Pipeline, cfg SettingsStore, nonces *nonce.Service, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{
		pipeline: pipeline,
		cfg:      cfg,
		nonces:   nonces,
		logger:   logger,
	}
}

type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Notes   string `json:"notes"`

	CaptchaToken string `json:"g_recaptcha_response"`
	Nonce        string `json:"nonce"`
}

type submitResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Submit handles POST /api/v1/public/appointments.
func (h *PublicHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, submitResponse{Message: "invalid json body"})
		return
	}

	result := h.pipeline.Submit(r.Context(), booking.Request{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Service:      req.Service,
		Date:         req.Date,
		Time:         req.Time,
		Notes:        req.Notes,
		CaptchaToken: req.CaptchaToken,
		Nonce:        req.Nonce,
	})

	writeJSON(w, submitStatus(result), submitResponse{OK: result.OK, Message: result.Message})
}

func submitStatus(result booking.Result) int {
	if result.OK {
		return http.StatusOK
	}
	switch result.Failure {
	case booking.FailureSecurity:
		return http.StatusForbidden
	case booking.FailureStore:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

type formConfigResponse struct {
	Nonce            string   `json:"nonce"`
	RecaptchaSiteKey string   `json:"recaptcha_site_key"`
	Services         []string `json:"services"`
	MinDate          string   `json:"min_date"`
	MaxDate          string   `json:"max_date"`
	MinDaysAdvance   int      `json:"min_days_advance"`
	MaxDaysAdvance   int      `json:"max_days_advance"`
	BusinessName     string   `json:"business_name"`
	BusinessAddress  string   `json:"business_address"`
	BusinessPhone    string   `json:"business_phone"`
	BusinessEmail    string   `json:"business_email"`
	BusinessHours    string   `json:"business_hours"`
	CustomCSS        string   `json:"custom_css"`
	MapsAPIKey       string   `json:"google_maps_api_key"`
	SuccessMessage   string   `json:"success_message"`
	ErrorMessage     string   `json:"error_message"`
}

// FormConfig handles GET /api/v1/public/form-config. It hands the
// rendering layer everything it needs to draw the form: catalog, date
// bounds, captcha site key, business identity, and a fresh nonce.
func (h *PublicHandler) FormConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg, err := h.cfg.Load(r.Context())
	if err != nil {
		h.logger.Error("settings load failed", "err", err)
		http.Error(w, "failed to load configuration", http.StatusInternalServerError)
		return
	}

	window := cfg.Window(time.Now())
	writeJSON(w, http.StatusOK, formConfigResponse{
		Nonce:            h.nonces.Create(booking.SubmitAction),
		RecaptchaSiteKey: cfg.RecaptchaSiteKey,
		Services:         cfg.ServiceList(),
		MinDate:          window.Min.Format("2006-01-02"),
		MaxDate:          window.Max.Format("2006-01-02"),
		MinDaysAdvance:   window.MinDays,
		MaxDaysAdvance:   window.MaxDays,
		BusinessName:     cfg.BusinessName,
		BusinessAddress:  cfg.BusinessAddress,
		BusinessPhone:    cfg.BusinessPhone,
		BusinessEmail:    cfg.BusinessEmail,
		BusinessHours:    cfg.BusinessHours,
		CustomCSS:        cfg.CustomCSS,
		MapsAPIKey:       cfg.MapsAPIKey,
		SuccessMessage:   cfg.SuccessMessage,
		ErrorMessage:     cfg.ErrorMessage,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
