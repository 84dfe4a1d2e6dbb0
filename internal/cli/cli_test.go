package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
)

func init() {
	stdinIsTerminal = func() bool { return false }
}

// stubBackend is an in-process stand-in for the hospital API.
type stubBackend struct {
	mu         sync.Mutex
	role       string
	claimBody  map[string]any
	searches   []string
	authHeader string
}

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	msg := ""
	if status >= 400 {
		msg, _ = data.(string)
		data = nil
	}
	json.NewEncoder(w).Encode(map[string]any{"success": status < 400, "message": msg, "data": data})
}

func startStub(t *testing.T, role string) (*stubBackend, string) {
	t.Helper()
	s := &stubBackend{role: role}
	r := chi.NewRouter()

	r.Post("/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]string
		json.NewDecoder(req.Body).Decode(&body)
		if body["password"] != "admin123" {
			writeEnvelope(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"token": "t1", "refreshToken": "r1", "userId": 1,
			"fullName": "Grace Wanjiru", "email": body["email"], "role": s.role,
		})
	})
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{"id": 1, "department": "Outpatient"})
	})
	r.Get("/users", func(w http.ResponseWriter, req *http.Request) {
		writeEnvelope(w, http.StatusOK, []map[string]any{{"id": 1, "fullName": "Grace Wanjiru", "role": s.role, "active": true}})
	})
	r.Get("/patients", func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		s.authHeader = req.Header.Get("Authorization")
		s.mu.Unlock()
		writeEnvelope(w, http.StatusOK, map[string]any{
			"content": []map[string]any{
				{"id": 1, "patientNo": "HMS-2026-00001", "fullName": "Mary Achieng", "gender": "FEMALE"},
				{"id": 2, "patientNo": "HMS-2026-00002", "fullName": "John Otieno", "gender": "MALE"},
			},
			"totalElements": 2, "totalPages": 1, "number": 0, "size": 20,
		})
	})
	r.Get("/patients/search", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query().Get("q")
		s.mu.Lock()
		s.searches = append(s.searches, q)
		s.mu.Unlock()
		writeEnvelope(w, http.StatusOK, map[string]any{
			"content":    []map[string]any{{"id": 1, "patientNo": "HMS-2026-00001", "fullName": "Match for " + q}},
			"totalPages": 1,
		})
	})
	r.Get("/billing/{id}", func(w http.ResponseWriter, req *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{
			"id": 7, "invoiceNumber": "INV-0007", "patientName": "Mary Achieng", "patientNo": "HMS-2026-00001",
			"totalAmount": 1500, "paidAmount": 500, "insuranceCoveredAmount": 400, "status": "PARTIAL",
		})
	})
	r.Put("/insurance/claims/{id}/status", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		json.NewDecoder(req.Body).Decode(&body)
		s.mu.Lock()
		s.claimBody = body
		s.mu.Unlock()
		writeEnvelope(w, http.StatusOK, map[string]any{"id": 3, "claimNumber": "CLM-3", "status": body["status"]})
	})
	r.Get("/dashboard", func(w http.ResponseWriter, req *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{"totalPatients": 42, "revenueToday": 12500})
	})
	r.Get("/notifications/user/{id}/unread-count", func(w http.ResponseWriter, req *http.Request) {
		writeEnvelope(w, http.StatusOK, 3)
	})
	r.Get("/visits/doctor/{id}/queue", func(w http.ResponseWriter, req *http.Request) {
		writeEnvelope(w, http.StatusOK, []map[string]any{
			{"id": 11, "patientName": "Mary Achieng", "patientNo": "HMS-2026-00001", "createdAt": time.Now().Add(-75 * time.Minute).Format(time.RFC3339)},
		})
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return s, ts.URL
}

// console runs hmsctl invocations against one server and data directory.
type console struct {
	t       *testing.T
	server  string
	dataDir string
}

func newConsole(t *testing.T, server string) *console {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return &console{t: t, server: server, dataDir: t.TempDir()}
}

func (c *console) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	return runCLI(c.t, stdin, append([]string{"--server", c.server, "--data-dir", c.dataDir}, args...)...)
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root, a := newRootCmd()
	defer a.teardown()

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestLoginPersistsSession(t *testing.T) {
	_, url := startStub(t, "HOSPITAL_ADMIN")
	c := newConsole(t, url)

	out, err := c.run("", "login", "--email", "admin@helvino-hms.com", "--password", "admin123")
	if err != nil {
		t.Fatalf("login error: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Signed in as Grace Wanjiru (HOSPITAL_ADMIN)") {
		t.Errorf("unexpected login output: %s", out)
	}
	if !strings.Contains(out, "Department: Outpatient") {
		t.Errorf("expected department after login, got: %s", out)
	}

	out, err = c.run("", "whoami", "-o", "json")
	if err != nil {
		t.Fatalf("whoami error: %v", err)
	}
	var who map[string]any
	if err := json.Unmarshal([]byte(out), &who); err != nil {
		t.Fatalf("whoami output is not JSON: %v\n%s", err, out)
	}
	if who["fullName"] != "Grace Wanjiru" || who["role"] != "HOSPITAL_ADMIN" || who["department"] != "Outpatient" {
		t.Errorf("unexpected whoami: %v", who)
	}
}

func TestLoginPromptsForCredentials(t *testing.T) {
	_, url := startStub(t, "DOCTOR")
	c := newConsole(t, url)

	out, err := c.run("doc@helvino-hms.com\nadmin123\n", "login")
	if err != nil {
		t.Fatalf("login error: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Email: ") || !strings.Contains(out, "Password: ") {
		t.Errorf("expected prompts, got: %s", out)
	}
	if !strings.Contains(out, "(DOCTOR)") {
		t.Errorf("expected doctor sign-in, got: %s", out)
	}
}

func TestLoginRejected(t *testing.T) {
	_, url := startStub(t, "DOCTOR")
	c := newConsole(t, url)

	_, err := c.run("", "login", "--email", "x@y", "--password", "wrong")
	if err == nil || !strings.Contains(err.Error(), "Invalid email or password") {
		t.Fatalf("expected backend message, got %v", err)
	}
	if _, err := c.run("", "whoami"); err == nil {
		t.Error("expected whoami to fail without a session")
	}
}

func TestGuardRedirects(t *testing.T) {
	_, url := startStub(t, "NURSE")
	c := newConsole(t, url)

	_, err := c.run("", "patients", "list")
	if err == nil || !strings.Contains(err.Error(), "hmsctl login") {
		t.Fatalf("expected sign-in hint, got %v", err)
	}

	if _, err := c.run("", "login", "--email", "n@h", "--password", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = c.run("", "users", "list")
	if err == nil || !strings.Contains(err.Error(), "role NURSE may not use this command") {
		t.Fatalf("expected role denial, got %v", err)
	}
	_, err = c.run("", "reports", "financial")
	if err == nil || !strings.Contains(err.Error(), "ACCOUNTANT") {
		t.Fatalf("expected finance role denial, got %v", err)
	}

	out, err := c.run("", "queue")
	if err != nil {
		t.Fatalf("queue should be open to nurses: %v", err)
	}
	if !strings.Contains(out, "1 patient waiting") || !strings.Contains(out, "1h 15m") {
		t.Errorf("unexpected queue output: %s", out)
	}

	if _, err := c.run("", "users", "password", "--current", "a", "--new", "b"); err != nil && strings.Contains(err.Error(), "may not use") {
		t.Errorf("password change must be open to every role, got %v", err)
	}
}

func TestPatientsListFormats(t *testing.T) {
	stub, url := startStub(t, "RECEPTIONIST")
	c := newConsole(t, url)
	if _, err := c.run("", "login", "--email", "r@h", "--password", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, err := c.run("", "patients", "list")
	if err != nil {
		t.Fatalf("patients list: %v", err)
	}
	for _, want := range []string{"NUMBER", "HMS-2026-00001", "Mary Achieng", "John Otieno"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in table, got: %s", want, out)
		}
	}
	stub.mu.Lock()
	if stub.authHeader != "Bearer t1" {
		t.Errorf("expected stored token to be sent, got %q", stub.authHeader)
	}
	stub.mu.Unlock()

	out, err = c.run("", "patients", "list", "-o", "yaml")
	if err != nil {
		t.Fatalf("patients list yaml: %v", err)
	}
	var page struct {
		Content []struct {
			FullName string `yaml:"fullName"`
		} `yaml:"content"`
	}
	if err := yaml.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if len(page.Content) != 2 || page.Content[0].FullName != "Mary Achieng" {
		t.Errorf("unexpected yaml page: %+v", page)
	}
}

func TestBillingShowsBalance(t *testing.T) {
	_, url := startStub(t, "ACCOUNTANT")
	c := newConsole(t, url)
	if _, err := c.run("", "login", "--email", "c@h", "--password", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, err := c.run("", "billing", "get", "7")
	if err != nil {
		t.Fatalf("billing get: %v", err)
	}
	for _, want := range []string{"INV-0007", "KES 1,500.00", "KES 600.00", "Helvino Hospital"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in invoice, got: %s", want, out)
		}
	}

	out, err = c.run("", "billing", "get", "7", "-o", "json")
	if err != nil {
		t.Fatalf("billing get json: %v", err)
	}
	var inv map[string]any
	json.Unmarshal([]byte(out), &inv)
	if inv["balance"] != float64(600) || inv["invoiceNumber"] != "INV-0007" {
		t.Errorf("unexpected invoice json: %v", inv)
	}
}

func TestClaimStatusApprovedAmount(t *testing.T) {
	stub, url := startStub(t, "ACCOUNTANT")
	c := newConsole(t, url)
	if _, err := c.run("", "login", "--email", "a@h", "--password", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	tests := []struct {
		status       string
		wantApproved bool
	}{
		{"partially-approved", true},
		{"REJECTED", false},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if _, err := c.run("", "insurance", "claims", "status", "3", tt.status, "--approved-amount", "800"); err != nil {
				t.Fatalf("claim status: %v", err)
			}
			stub.mu.Lock()
			defer stub.mu.Unlock()
			_, has := stub.claimBody["approvedAmount"]
			if has != tt.wantApproved {
				t.Errorf("approvedAmount present = %v, want %v (body %v)", has, tt.wantApproved, stub.claimBody)
			}
		})
	}
}

func TestLogoutKeepsProfile(t *testing.T) {
	_, url := startStub(t, "HOSPITAL_ADMIN")
	c := newConsole(t, url)
	if _, err := c.run("", "login", "--email", "a@h", "--password", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := c.run("", "profile", "set", "--name", "St. Luke's Mission Hospital"); err != nil {
		t.Fatalf("profile set: %v", err)
	}
	if _, err := c.run("", "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := c.run("", "whoami"); err == nil {
		t.Error("expected whoami to fail after logout")
	}

	if _, err := c.run("", "login", "--email", "a@h", "--password", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	out, err := c.run("", "profile", "show")
	if err != nil {
		t.Fatalf("profile show: %v", err)
	}
	if !strings.Contains(out, "St. Luke's Mission Hospital") || !strings.Contains(out, "Nairobi, Kenya") {
		t.Errorf("expected profile to survive logout, got: %s", out)
	}
}

func TestDashboard(t *testing.T) {
	_, url := startStub(t, "DOCTOR")
	c := newConsole(t, url)
	if _, err := c.run("", "login", "--email", "d@h", "--password", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, err := c.run("", "dashboard", "-o", "json")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	var view map[string]any
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("dashboard output is not JSON: %v\n%s", err, out)
	}
	if view["unreadNotifications"] != float64(3) || view["queueLength"] != float64(1) {
		t.Errorf("unexpected dashboard: %v", view)
	}
	if stats, _ := view["stats"].(map[string]any); stats["totalPatients"] != float64(42) {
		t.Errorf("unexpected stats: %v", view["stats"])
	}
}

func TestFindPatientsDebounces(t *testing.T) {
	t.Setenv("HMS_DEBOUNCE", "20ms")
	stub, url := startStub(t, "RECEPTIONIST")
	c := newConsole(t, url)
	if _, err := c.run("", "login", "--email", "r@h", "--password", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, err := c.run("m\nma\nmar\nmary\n", "find", "patients")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !strings.Contains(out, "Match for mary") {
		t.Errorf("expected results for the final query, got: %s", out)
	}

	stub.mu.Lock()
	defer stub.mu.Unlock()
	if n := len(stub.searches); n == 0 || stub.searches[n-1] != "mary" {
		t.Errorf("expected the last search to be for mary, got %v", stub.searches)
	}
	if len(stub.searches) == 4 {
		t.Errorf("expected rapid input to be coalesced, got %v", stub.searches)
	}
}

func TestReadPayload(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "patient.yaml")
	os.WriteFile(yml, []byte("fullName: Mary Achieng\ngender: FEMALE\ninsuranceCompanyId: 4\n"), 0o600)
	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"fullname": "typo"}`), 0o600)

	var p struct {
		FullName           string `json:"fullName"`
		Gender             string `json:"gender"`
		InsuranceCompanyID *int64 `json:"insuranceCompanyId"`
	}
	if err := readPayload(yml, nil, &p); err != nil {
		t.Fatalf("readPayload yaml: %v", err)
	}
	if p.FullName != "Mary Achieng" || p.InsuranceCompanyID == nil || *p.InsuranceCompanyID != 4 {
		t.Errorf("unexpected payload: %+v", p)
	}

	if err := readPayload(bad, nil, &p); err == nil {
		t.Error("expected unknown field to be rejected")
	}

	var fromStdin struct {
		Name string `json:"name"`
	}
	if err := readPayload("-", strings.NewReader(`{"name":"General"}`), &fromStdin); err != nil || fromStdin.Name != "General" {
		t.Errorf("stdin payload = %+v, %v", fromStdin, err)
	}
}

func TestWaitTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		createdAt string
		want      string
	}{
		{now.Add(-45 * time.Minute).Format(time.RFC3339), "45m"},
		{now.Add(-125 * time.Minute).Format(time.RFC3339), "2h 5m"},
		{now.Add(time.Minute).Format(time.RFC3339), "0m"},
		{"not a time", "-"},
	}
	for _, tt := range tests {
		if got := waitTime(tt.createdAt, now); got != tt.want {
			t.Errorf("waitTime(%q) = %q, want %q", tt.createdAt, got, tt.want)
		}
	}
}

func TestDefaultRange(t *testing.T) {
	start, end := defaultRange(time.Date(2026, 2, 17, 9, 30, 0, 0, time.UTC))
	if start != "2026-02-01" || end != "2026-02-17" {
		t.Errorf("defaultRange = %s..%s", start, end)
	}
}

func TestMoney(t *testing.T) {
	tests := map[float64]string{
		0:        "KES 0.00",
		1500:     "KES 1,500.00",
		12345.5:  "KES 12,345.50",
		1e6 + .2: "KES 1,000,000.20",
	}
	for in, want := range tests {
		if got := money(in); got != want {
			t.Errorf("money(%v) = %q, want %q", in, got, want)
		}
	}
}
