package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/internal/storage"
	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

type fakeUsers struct {
	calls atomic.Int32
	user  *hms.User
	err   error
	// block, when non-nil, delays the response until closed.
	block chan struct{}
}

func (f *fakeUsers) Get(ctx context.Context, id int64) (*hms.User, error) {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

var adminResult = hms.AuthResult{
	Token:        "t1",
	RefreshToken: "r1",
	UserID:       1,
	FullName:     "Admin",
	Email:        "admin@helvino-hms.com",
	Role:         hms.RoleHospitalAdmin,
}

func TestStore_LoginPersistsAndLooksUpDepartment(t *testing.T) {
	kv := storage.NewMemoryKV()
	users := &fakeUsers{user: &hms.User{ID: 1, Department: "Administration"}}
	s := New(kv, users, nil)
	defer s.Close()
	ctx := context.Background()

	s.Login(ctx, adminResult)
	s.Wait()

	st := s.Snapshot()
	if !st.Authenticated() {
		t.Fatal("expected authenticated session")
	}
	if st.Role != hms.RoleHospitalAdmin {
		t.Errorf("expected HOSPITAL_ADMIN, got %q", st.Role)
	}
	if st.Department != "Administration" {
		t.Errorf("expected department Administration, got %q", st.Department)
	}
	if users.calls.Load() != 1 {
		t.Errorf("expected exactly one department lookup, got %d", users.calls.Load())
	}

	want := map[string]string{
		KeyToken:        "t1",
		KeyRefreshToken: "r1",
		KeyUserID:       "1",
		KeyFullName:     "Admin",
		KeyEmail:        "admin@helvino-hms.com",
		KeyRole:         "HOSPITAL_ADMIN",
		KeyDepartment:   "Administration",
	}
	for k, v := range want {
		got, ok, err := kv.Get(ctx, k)
		if err != nil || !ok || got != v {
			t.Errorf("storage[%s] = (%q, %v, %v), want %q", k, got, ok, err, v)
		}
	}
}

func TestStore_DepartmentLookupFailureIsSwallowed(t *testing.T) {
	kv := storage.NewMemoryKV()
	users := &fakeUsers{err: errors.New("HTTP 500")}
	s := New(kv, users, nil)
	defer s.Close()

	s.Login(context.Background(), adminResult)
	s.Wait()

	st := s.Snapshot()
	if !st.Authenticated() {
		t.Fatal("login must succeed even if the department lookup fails")
	}
	if st.Department != "" {
		t.Errorf("expected no department, got %q", st.Department)
	}
	if _, ok, _ := kv.Get(context.Background(), KeyDepartment); ok {
		t.Error("expected no stored department")
	}
}

func TestStore_EmptyDepartmentClears(t *testing.T) {
	kv := storage.NewMemoryKV()
	kv.Set(context.Background(), KeyDepartment, "Old")
	s := New(kv, &fakeUsers{user: &hms.User{ID: 1}}, nil)
	defer s.Close()

	s.Login(context.Background(), adminResult)
	s.Wait()

	if d := s.Snapshot().Department; d != "" {
		t.Errorf("expected department cleared, got %q", d)
	}
	if _, ok, _ := kv.Get(context.Background(), KeyDepartment); ok {
		t.Error("expected department key removed")
	}
}

func TestStore_FetchDepartmentWithoutUserIsNoop(t *testing.T) {
	users := &fakeUsers{user: &hms.User{Department: "X"}}
	s := New(storage.NewMemoryKV(), users, nil)
	defer s.Close()

	s.FetchDepartment(context.Background())
	if users.calls.Load() != 0 {
		t.Errorf("expected no lookup without a user id, got %d", users.calls.Load())
	}
}

func TestStore_Logout(t *testing.T) {
	kv := storage.NewMemoryKV()
	kv.Set(context.Background(), "hospitalProfile", `{"name":"X"}`)
	s := New(kv, &fakeUsers{user: &hms.User{Department: "Surgery"}}, nil)
	defer s.Close()
	ctx := context.Background()

	s.Login(ctx, adminResult)
	s.Wait()
	s.Logout(ctx)

	if s.Snapshot().Authenticated() {
		t.Error("expected unauthenticated after logout")
	}
	if s.AccessToken() != "" {
		t.Error("expected empty access token after logout")
	}
	for _, k := range Keys {
		if _, ok, _ := kv.Get(ctx, k); ok {
			t.Errorf("expected key %s removed", k)
		}
	}
	if _, ok, _ := kv.Get(ctx, "hospitalProfile"); !ok {
		t.Error("logout must not touch keys the session does not own")
	}
}

func TestStore_LogoutWithoutLogin(t *testing.T) {
	s := New(storage.NewMemoryKV(), nil, nil)
	defer s.Close()

	s.Logout(context.Background())
	s.Logout(context.Background())
	if s.Snapshot().Authenticated() {
		t.Error("expected unauthenticated")
	}
}

func TestStore_LateDepartmentDroppedAfterLogout(t *testing.T) {
	kv := storage.NewMemoryKV()
	users := &fakeUsers{user: &hms.User{Department: "Radiology"}, block: make(chan struct{})}
	s := New(kv, users, nil)
	defer s.Close()
	ctx := context.Background()

	s.Login(ctx, adminResult)
	s.Logout(ctx)
	close(users.block)
	s.Wait()

	if d := s.Snapshot().Department; d != "" {
		t.Errorf("expected no department after logout, got %q", d)
	}
	if _, ok, _ := kv.Get(ctx, KeyDepartment); ok {
		t.Error("late lookup must not persist into a signed-out store")
	}
}

// gatedKV blocks writes of the department key until release is closed.
type gatedKV struct {
	storage.KV
	entered chan struct{}
	release chan struct{}
}

func (g *gatedKV) Set(ctx context.Context, key, value string) error {
	if key == KeyDepartment {
		close(g.entered)
		<-g.release
	}
	return g.KV.Set(ctx, key, value)
}

func TestStore_LogoutDuringDepartmentWrite(t *testing.T) {
	kv := &gatedKV{KV: storage.NewMemoryKV(), entered: make(chan struct{}), release: make(chan struct{})}
	s := New(kv, &fakeUsers{user: &hms.User{Department: "Radiology"}}, nil)
	defer s.Close()
	ctx := context.Background()

	s.Login(ctx, adminResult)
	select {
	case <-kv.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("department write never started")
	}

	loggedOut := make(chan struct{})
	go func() {
		s.Logout(ctx)
		close(loggedOut)
	}()
	time.Sleep(20 * time.Millisecond)
	close(kv.release)

	select {
	case <-loggedOut:
	case <-time.After(2 * time.Second):
		t.Fatal("Logout did not return")
	}
	s.Wait()

	if s.Snapshot().Authenticated() {
		t.Error("expected unauthenticated after logout")
	}
	for _, k := range Keys {
		if v, ok, _ := kv.Get(ctx, k); ok {
			t.Errorf("session key %s = %q survived logout", k, v)
		}
	}

	again := New(kv, nil, nil)
	defer again.Close()
	if err := again.Hydrate(ctx); err != nil {
		t.Fatalf("Hydrate failed: %v", err)
	}
	if st := again.Snapshot(); st != (State{}) {
		t.Errorf("expected empty hydrated state, got %+v", st)
	}
}

func TestStore_HydrateRestoresSession(t *testing.T) {
	kv := storage.NewMemoryKV()
	ctx := context.Background()

	first := New(kv, &fakeUsers{user: &hms.User{Department: "Pharmacy"}}, nil)
	first.Login(ctx, hms.AuthResult{Token: "t", RefreshToken: "r", UserID: 9, FullName: "Pat", Email: "p@x", Role: hms.RolePharmacist})
	first.Wait()
	first.Close()

	second := New(kv, nil, nil)
	defer second.Close()
	if err := second.Hydrate(ctx); err != nil {
		t.Fatalf("Hydrate failed: %v", err)
	}
	st := second.Snapshot()
	if !st.Authenticated() || st.UserID != 9 || st.Role != hms.RolePharmacist || st.Department != "Pharmacy" {
		t.Errorf("unexpected hydrated state: %+v", st)
	}
}

func TestStore_HydrateFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		stored   map[string]string
		wantAuth bool
		wantID   int64
	}{
		{"empty storage", nil, false, 0},
		{"unknown role discards session", map[string]string{KeyToken: "t", KeyRole: "JANITOR", KeyUserID: "3"}, false, 0},
		{"bad user id keeps token", map[string]string{KeyToken: "t", KeyRole: "NURSE", KeyUserID: "abc"}, true, 0},
		{"overflowing user id is zeroed", map[string]string{KeyToken: "t", KeyRole: "NURSE", KeyUserID: "99999999999999999999"}, true, 0},
		{"valid", map[string]string{KeyToken: "t", KeyRole: "NURSE", KeyUserID: "3"}, true, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemoryKV()
			kv.SetMany(context.Background(), tt.stored)
			s := New(kv, nil, nil)
			defer s.Close()
			if err := s.Hydrate(context.Background()); err != nil {
				t.Fatalf("Hydrate failed: %v", err)
			}
			st := s.Snapshot()
			if st.Authenticated() != tt.wantAuth || st.UserID != tt.wantID {
				t.Errorf("got auth=%v id=%d, want auth=%v id=%d", st.Authenticated(), st.UserID, tt.wantAuth, tt.wantID)
			}
		})
	}
}

func TestStore_TokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	s := New(storage.NewMemoryKV(), nil, nil)
	defer s.Close()
	if _, ok := s.TokenExpiry(); ok {
		t.Error("expected no expiry without a token")
	}

	s.Login(context.Background(), hms.AuthResult{Token: signed, UserID: 1, Role: hms.RoleDoctor})
	got, ok := s.TokenExpiry()
	if !ok {
		t.Fatal("expected expiry from JWT")
	}
	if !got.Equal(exp) {
		t.Errorf("expiry = %v, want %v", got, exp)
	}

	s.Login(context.Background(), hms.AuthResult{Token: "opaque", UserID: 1, Role: hms.RoleDoctor})
	if _, ok := s.TokenExpiry(); ok {
		t.Error("expected no expiry for opaque token")
	}
}

// TestStore_LoginAgainstStubBackend wires the store to a real client and a
// stubbed backend, the way the console does at startup.
func TestStore_LoginAgainstStubBackend(t *testing.T) {
	var mu sync.Mutex
	var profileAuth string
	r := chi.NewRouter()
	r.Post("/auth/login", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"token": "t1", "refreshToken": "r1", "userId": 1,
				"fullName": "Admin", "email": "admin@helvino-hms.com", "role": "HOSPITAL_ADMIN",
			},
		})
	})
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		mu.Lock()
		profileAuth = req.Header.Get("Authorization")
		mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"id": 1, "department": "Administration"},
		})
	})
	ts := httptest.NewServer(r)
	defer ts.Close()

	s := New(storage.NewMemoryKV(), nil, nil)
	defer s.Close()
	client := hms.NewClient(hms.DefaultConfig().WithBaseURL(ts.URL), s, nil)
	s.SetUserLookup(client.Users)

	ctx := context.Background()
	res, err := client.Auth.Login(ctx, "admin@helvino-hms.com", "admin123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	s.Login(ctx, *res)
	s.Wait()

	st := s.Snapshot()
	if !st.Authenticated() || st.Role != hms.RoleHospitalAdmin {
		t.Errorf("unexpected state: %+v", st)
	}
	if st.Department != "Administration" {
		t.Errorf("expected department, got %q", st.Department)
	}
	mu.Lock()
	defer mu.Unlock()
	if profileAuth != "Bearer t1" {
		t.Errorf("expected profile lookup to carry the new token, got %q", profileAuth)
	}
}
