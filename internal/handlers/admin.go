package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nayan-ray/bookingd/internal/console"
	"github.com/nayan-ray/bookingd/internal/nonce"
)

// AdminHandler is the operator console API: list/search appointments,
// delete them, and read/write the widget settings. Access control is the
// host platform's concern; this layer only checks the shared token the
// platform injects.
type AdminHandler struct {
	listing *console.Service
	cfg     SettingsStore
	nonces  *nonce.Service
	token   string
	logger  *slog.Logger
}

func NewAdminHandler(listing *console.Service, cfg SettingsStore, nonces *nonce.Service, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		listing: listing,
		cfg:     cfg,
		nonces:  nonces,
		token:   strings.TrimSpace(token),
		logger:  logger,
	}
}

// Require wraps an admin endpoint with the shared-token check.
func (h *AdminHandler) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.token == "" {
			http.Error(w, "admin access not configured", http.StatusForbidden)
			return
		}
		got := strings.TrimSpace(r.Header.Get("X-Admin-Token"))
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

func deleteAction(id int64) string {
	return fmt.Sprintf("delete_appointment_%d", id)
}

type appointmentItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Service     string `json:"service"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Notes       string `json:"notes"`
	CreatedAt   string `json:"created_at"`
	DeleteNonce string `json:"delete_nonce"`
}

type listResponse struct {
	Appointments []appointmentItem `json:"appointments"`
	TotalItems   int               `json:"total_items"`
	TotalPages   int               `json:"total_pages"`
	Page         int               `json:"page"`
}

// List handles GET /api/v1/admin/appointments?s=<term>&paged=<n>.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	search := strings.TrimSpace(r.URL.Query().Get("s"))
	page := 1
	if raw := strings.TrimSpace(r.URL.Query().Get("paged")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}

	result, err := h.listing.Page(r.Context(), search, page)
	if err != nil {
		h.logger.Error("appointment listing failed", "err", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}

	items := make([]appointmentItem, 0, len(result.Records))
	for _, rec := range result.Records {
		items = append(items, appointmentItem{
			ID:          rec.ID,
			Name:        rec.Name,
			Email:       rec.Email,
			Phone:       rec.Phone,
			Service:     rec.Service,
			Date:        rec.Date,
			Time:        rec.Time,
			Notes:       rec.Notes,
			CreatedAt:   rec.CreatedAt.UTC().Format(time.RFC3339),
			DeleteNonce: h.nonces.Create(deleteAction(rec.ID)),
		})
	}

	writeJSON(w, http.StatusOK, listResponse{
		Appointments: items,
		TotalItems:   result.TotalCount,
		TotalPages:   result.TotalPages,
		Page:         result.Page,
	})
}

type deleteRequest struct {
	ID    int64  `json:"id"`
	Nonce string `json:"nonce"`
}

// Delete handles POST /api/v1/admin/appointments/delete. Deleting an id
// that no longer exists still reports success.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.ID <= 0 {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}
	if !h.nonces.Verify(req.Nonce, deleteAction(req.ID)) {
		http.Error(w, "security check failed", http.StatusForbidden)
		return
	}

	if err := h.listing.DeleteByID(r.Context(), req.ID); err != nil {
		h.logger.Error("appointment delete failed", "id", req.ID, "err", err)
		http.Error(w, "failed to delete appointment", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
