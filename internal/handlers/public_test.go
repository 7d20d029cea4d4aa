package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nayan-ray/bookingd/internal/booking"
	"github.com/nayan-ray/bookingd/internal/model"
	"github.com/nayan-ray/bookingd/internal/nonce"
	"github.com/nayan-ray/bookingd/internal/settings"
)

type fakeSettings struct {
	cfg     settings.Settings
	loadErr error
	saved   *settings.Settings
	saveErr error
}

func (f *fakeSettings) Load(_ context.Context) (settings.Settings, error) {
	return f.cfg, f.loadErr
}

func (f *fakeSettings) Save(_ context.Context, cfg settings.Settings) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = &cfg
	f.cfg = cfg
	return nil
}

type memStore struct {
	recs   []model.AppointmentRecord
	nextID int64
	err    error
}

func (s *memStore) Insert(_ context.Context, rec *model.AppointmentRecord) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.nextID++
	stored := *rec
	stored.ID = s.nextID
	stored.CreatedAt = time.Now().UTC()
	s.recs = append(s.recs, stored)
	return s.nextID, nil
}

type noopNotifier struct{}

func (noopNotifier) NotifyOperator(context.Context, settings.Settings, *model.AppointmentRecord) error {
	return nil
}

func (noopNotifier) NotifyUser(context.Context, settings.Settings, *model.AppointmentRecord) error {
	return nil
}

type passVerifier struct{ ok bool }

func (v passVerifier) Verify(context.Context, string, string) bool { return v.ok }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testNonces() *nonce.Service {
	return nonce.New("handler-test-secret", 12*time.Hour)
}

type publicFixture struct {
	handler  *PublicHandler
	store    *memStore
	cfgStore *fakeSettings
	nonces   *nonce.Service
}

func newPublicFixture(captchaOK bool) *publicFixture {
	store := &memStore{}
	cfgStore := &fakeSettings{cfg: settings.Defaults()}
	nonces := testNonces()
	logger := testLogger()
	pipeline := booking.NewPipeline(store, cfgStore, passVerifier{ok: captchaOK}, noopNotifier{}, nonces, logger)
	return &publicFixture{
		handler:  NewPublicHandler(pipeline, cfgStore, nonces, logger),
		store:    store,
		cfgStore: cfgStore,
		nonces:   nonces,
	}
}

func submitBody(f *publicFixture) map[string]string {
	return map[string]string{
		"name":                 "Jane Doe",
		"email":                "jane@x.com",
		"phone":                "+12025550123",
		"service":              "Consultation",
		"date":                 time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
		"time":                 "10:00",
		"notes":                "first visit",
		"g_recaptcha_response": "tok",
		"nonce":                f.nonces.Create(booking.SubmitAction),
	}
}

func postJSON(h http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestSubmit_OK(t *testing.T) {
	f := newPublicFixture(true)

	rec := postJSON(f.handler.Submit, "/api/v1/public/appointments", submitBody(f))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.OK || resp.Message != "Appointment submitted successfully!" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(f.store.recs) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(f.store.recs))
	}
}

func TestSubmit_BadNonceIsForbidden(t *testing.T) {
	f := newPublicFixture(true)
	body := submitBody(f)
	body["nonce"] = "bogus"

	rec := postJSON(f.handler.Submit, "/api/v1/public/appointments", body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Security check failed.") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestSubmit_CaptchaFailureIsBadRequest(t *testing.T) {
	f := newPublicFixture(false)

	rec := postJSON(f.handler.Submit, "/api/v1/public/appointments", submitBody(f))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Captcha verification failed.") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestSubmit_StoreFailureIsServerError(t *testing.T) {
	f := newPublicFixture(true)
	f.store.err = errors.New("pool exhausted")

	rec := postJSON(f.handler.Submit, "/api/v1/public/appointments", submitBody(f))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", rec.Code)
	}
}

func TestSubmit_InvalidJSON(t *testing.T) {
	f := newPublicFixture(true)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/appointments", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	f.handler.Submit(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestSubmit_MethodNotAllowed(t *testing.T) {
	f := newPublicFixture(true)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/appointments", nil)
	rec := httptest.NewRecorder()
	f.handler.Submit(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status %d, want 405", rec.Code)
	}
}

func TestFormConfig(t *testing.T) {
	f := newPublicFixture(true)
	f.cfgStore.cfg.BusinessName = "Acme Dental"
	f.cfgStore.cfg.RecaptchaSiteKey = "site-key"

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/form-config", nil)
	rec := httptest.NewRecorder()
	f.handler.FormConfig(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Nonce          string   `json:"nonce"`
		SiteKey        string   `json:"recaptcha_site_key"`
		Services       []string `json:"services"`
		MinDate        string   `json:"min_date"`
		MaxDate        string   `json:"max_date"`
		MinDaysAdvance int      `json:"min_days_advance"`
		MaxDaysAdvance int      `json:"max_days_advance"`
		BusinessName   string   `json:"business_name"`
		SecretKey      string   `json:"recaptcha_secret_key"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Nonce == "" {
		t.Fatal("form config must carry a fresh nonce")
	}
	if !f.nonces.Verify(resp.Nonce, booking.SubmitAction) {
		t.Fatal("issued nonce should verify for submissions")
	}
	if resp.SiteKey != "site-key" || resp.BusinessName != "Acme Dental" {
		t.Fatalf("unexpected config: %+v", resp)
	}
	if len(resp.Services) != 3 {
		t.Fatalf("unexpected services: %v", resp.Services)
	}
	wantMin := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	if resp.MinDate != wantMin {
		t.Fatalf("min date %q, want %q", resp.MinDate, wantMin)
	}
	if resp.MinDaysAdvance != 1 || resp.MaxDaysAdvance != 30 {
		t.Fatalf("unexpected day counts: %d..%d", resp.MinDaysAdvance, resp.MaxDaysAdvance)
	}
	if strings.Contains(rec.Body.String(), "recaptcha_secret_key") {
		t.Fatal("secret key must not leak into the public config")
	}
}

func TestFormConfig_SettingsLoadError(t *testing.T) {
	f := newPublicFixture(true)
	f.cfgStore.loadErr = fmt.Errorf("connection refused")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/form-config", nil)
	rec := httptest.NewRecorder()
	f.handler.FormConfig(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", rec.Code)
	}
}
