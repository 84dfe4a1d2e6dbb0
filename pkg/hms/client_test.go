package hms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
)

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": success,
		"message": message,
		"data":    data,
	})
}

func newTestClient(t *testing.T, r http.Handler, token string) *Client {
	t.Helper()
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return NewClient(DefaultConfig().WithBaseURL(ts.URL), StaticToken(token), nil)
}

func TestClient_LoginDecodesEnvelope(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]string
		json.NewDecoder(req.Body).Decode(&body)
		if body["email"] != "admin@helvino-hms.com" || body["password"] != "admin123" {
			writeEnvelope(w, http.StatusUnauthorized, false, "Invalid email or password", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, true, "Login successful", map[string]any{
			"token": "t1", "refreshToken": "r1", "userId": 1,
			"fullName": "Admin", "email": "admin@helvino-hms.com", "role": "HOSPITAL_ADMIN",
		})
	})
	c := newTestClient(t, r, "")

	res, err := c.Auth.Login(context.Background(), "admin@helvino-hms.com", "admin123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.Token != "t1" || res.RefreshToken != "r1" || res.UserID != 1 {
		t.Errorf("unexpected auth result: %+v", res)
	}
	if res.Role != RoleHospitalAdmin {
		t.Errorf("expected role HOSPITAL_ADMIN, got %q", res.Role)
	}

	_, err = c.Auth.Login(context.Background(), "admin@helvino-hms.com", "wrong")
	if err == nil {
		t.Fatal("expected error for bad credentials")
	}
	if !IsUnauthorized(err) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
	if Message(err) != "Invalid email or password" {
		t.Errorf("expected envelope message, got %q", Message(err))
	}
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	r := chi.NewRouter()
	r.Get("/dashboard", func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		gotRequestID = req.Header.Get("X-Request-ID")
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{"totalPatients": 42})
	})
	c := newTestClient(t, r, "abc")

	d, err := c.Dashboard.Get(context.Background())
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if d.TotalPatients != 42 {
		t.Errorf("expected 42 patients, got %d", d.TotalPatients)
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var hadAuth bool
	r := chi.NewRouter()
	r.Get("/dashboard", func(w http.ResponseWriter, req *http.Request) {
		_, hadAuth = req.Header["Authorization"]
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{})
	})
	c := newTestClient(t, r, "")

	if _, err := c.Dashboard.Get(context.Background()); err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if hadAuth {
		t.Error("expected no Authorization header without a token")
	}
}

func TestClient_RetriesGetOnce(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Get("/wards", func(w http.ResponseWriter, req *http.Request) {
		if calls.Add(1) == 1 {
			writeEnvelope(w, http.StatusInternalServerError, false, "boom", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, true, "", []map[string]any{{"id": 1, "name": "General"}})
	})
	c := newTestClient(t, r, "t")

	wards, err := c.Wards.Wards(context.Background())
	if err != nil {
		t.Fatalf("Wards failed: %v", err)
	}
	if len(wards) != 1 || wards[0].Name != "General" {
		t.Errorf("unexpected wards: %+v", wards)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestClient_RetryLimit(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Get("/wards", func(w http.ResponseWriter, req *http.Request) {
		calls.Add(1)
		writeEnvelope(w, http.StatusServiceUnavailable, false, "down", nil)
	})
	c := newTestClient(t, r, "t")

	_, err := c.Wards.Wards(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if StatusCode(err) != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", StatusCode(err))
	}
	if calls.Load() != 2 {
		t.Errorf("expected one retry (2 calls), got %d", calls.Load())
	}
}

func TestClient_NoRetryForMutations(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Post("/patients", func(w http.ResponseWriter, req *http.Request) {
		calls.Add(1)
		writeEnvelope(w, http.StatusInternalServerError, false, "Failed to create patient", nil)
	})
	c := newTestClient(t, r, "t")

	_, err := c.Patients.Create(context.Background(), &Patient{FullName: "Jane"})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("expected no retry for POST, got %d calls", calls.Load())
	}
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"bad request", http.StatusBadRequest},
		{"unauthorized", http.StatusUnauthorized},
		{"not found", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			r := chi.NewRouter()
			r.Get("/patients/{id}", func(w http.ResponseWriter, req *http.Request) {
				calls.Add(1)
				writeEnvelope(w, tt.status, false, "rejected", nil)
			})
			c := newTestClient(t, r, "t")

			_, err := c.Patients.Get(context.Background(), 9)
			if StatusCode(err) != tt.status {
				t.Fatalf("expected HTTP %d, got %v", tt.status, err)
			}
			if calls.Load() != 1 {
				t.Errorf("expected 1 call, got %d", calls.Load())
			}
		})
	}
}

func TestClient_QueryParameters(t *testing.T) {
	var seen []string
	r := chi.NewRouter()
	record := func(w http.ResponseWriter, req *http.Request) {
		seen = append(seen, req.Method+" "+req.URL.Path+"?"+req.URL.RawQuery)
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{})
	}
	r.Put("/appointments/{id}/status", record)
	r.Post("/pharmacy/prescriptions/{id}/dispense", record)
	r.Put("/lab/orders/{id}/verify", record)
	r.Get("/patients/search", record)
	r.Get("/patients", record)
	r.Get("/reports/financial", record)
	c := newTestClient(t, r, "t")
	ctx := context.Background()

	if _, err := c.Appointments.UpdateStatus(ctx, 3, AppointmentCheckedIn); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Pharmacy.Dispense(ctx, 5, 7); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Lab.Verify(ctx, 11, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Patients.Search(ctx, "mary & co", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Patients.List(ctx, 0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Reports.Financial(ctx, "2026-01-01", "2026-01-31"); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"PUT /appointments/3/status?status=CHECKED_IN",
		"POST /pharmacy/prescriptions/5/dispense?pharmacistId=7",
		"PUT /lab/orders/11/verify?verifiedById=2",
		"GET /patients/search?page=1&q=mary+%26+co",
		"GET /patients?page=0&size=20",
		"GET /reports/financial?endDate=2026-01-31&startDate=2026-01-01",
	}
	if len(seen) != len(want) {
		t.Fatalf("expected %d requests, got %d: %v", len(want), len(seen), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("request %d = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestClient_DeactivateUsesDelete(t *testing.T) {
	var method string
	r := chi.NewRouter()
	r.Delete("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		method = req.Method
		writeEnvelope(w, http.StatusOK, true, "User deactivated", nil)
	})
	c := newTestClient(t, r, "t")

	if err := c.Users.Deactivate(context.Background(), 4); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	if method != http.MethodDelete {
		t.Errorf("expected DELETE, got %s", method)
	}
}

func TestClient_EnvelopeSuccessFlag(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/wards", func(w http.ResponseWriter, req *http.Request) {
		writeEnvelope(w, http.StatusOK, false, "ward service degraded", []any{})
	})
	ts := httptest.NewServer(r)
	defer ts.Close()

	lenient := NewClient(DefaultConfig().WithBaseURL(ts.URL), nil, nil)
	if _, err := lenient.Wards.Wards(context.Background()); err != nil {
		t.Errorf("default mode should ignore success=false, got %v", err)
	}

	cfg := DefaultConfig().WithBaseURL(ts.URL)
	cfg.StrictEnvelope = true
	strict := NewClient(cfg, nil, nil)
	_, err := strict.Wards.Wards(context.Background())
	var envErr *EnvelopeError
	if !errors.As(err, &envErr) {
		t.Fatalf("expected EnvelopeError in strict mode, got %v", err)
	}
	if envErr.Message != "ward service degraded" {
		t.Errorf("unexpected message %q", envErr.Message)
	}
}

func TestClient_UnreadCount(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/notifications/user/{id}/unread-count", func(w http.ResponseWriter, req *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", 5)
	})
	c := newTestClient(t, r, "t")

	n, err := c.Notifications.UnreadCount(context.Background(), 1)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if n != 5 {
		t.Errorf("expected 5, got %d", n)
	}
}
