// Package session holds the signed-in operator: the token pair, identity and
// lazily fetched department. Every mutation is mirrored to durable storage so
// a restart restores the session without a new login.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/internal/storage"
	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

// Storage keys owned by the session.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"
	KeyUserID       = "userId"
	KeyFullName     = "fullName"
	KeyEmail        = "email"
	KeyRole         = "role"
	KeyDepartment   = "department"
)

// Keys lists every storage key the session writes. Logout removes all of them.
var Keys = []string{
	KeyToken, KeyRefreshToken, KeyUserID, KeyFullName, KeyEmail, KeyRole, KeyDepartment,
}

// DepartmentTimeout bounds the post-login department lookup.
const DepartmentTimeout = 15 * time.Second

// State is a snapshot of the signed-in operator.
type State struct {
	Token        string   `json:"-"`
	RefreshToken string   `json:"-"`
	UserID       int64    `json:"userId"`
	FullName     string   `json:"fullName"`
	Email        string   `json:"email"`
	Role         hms.Role `json:"role"`
	Department   string   `json:"department,omitempty"`
}

// Authenticated is true iff an access token is present.
func (s State) Authenticated() bool {
	return s.Token != ""
}

// UserLookup fetches a full user profile. *hms.UserService satisfies it.
type UserLookup interface {
	Get(ctx context.Context, id int64) (*hms.User, error)
}

// Store is the session container. Construct it at startup, Hydrate once,
// and Close on shutdown.
type Store struct {
	kv     storage.KV
	users  UserLookup
	logger *slog.Logger

	// writeMu serializes storage writes with the state changes they mirror,
	// so a department write cannot land after a newer logout.
	writeMu sync.Mutex

	mu    sync.RWMutex
	state State
	// gen increments on every login/logout so a late department lookup
	// cannot write into a newer session.
	gen uint64

	lookups sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates an unauthenticated Store backed by kv. users may be set later
// with SetUserLookup (the API client usually needs the store first).
func New(kv storage.KV, users UserLookup, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		kv:     kv,
		users:  users,
		logger: logger.With("component", "session"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetUserLookup sets the profile source used by FetchDepartment.
func (s *Store) SetUserLookup(users UserLookup) {
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
}

// Hydrate restores the session from storage. Missing keys leave the store
// unauthenticated; a stored role outside the enumeration discards the whole
// session. Only storage read failures are returned.
func (s *Store) Hydrate(ctx context.Context) error {
	values := make(map[string]string, len(Keys))
	for _, k := range Keys {
		v, ok, err := s.kv.Get(ctx, k)
		if err != nil {
			return fmt.Errorf("hydrate session: %w", err)
		}
		if ok {
			values[k] = v
		}
	}

	st := State{
		Token:        values[KeyToken],
		RefreshToken: values[KeyRefreshToken],
		FullName:     values[KeyFullName],
		Email:        values[KeyEmail],
		Role:         hms.Role(values[KeyRole]),
		Department:   values[KeyDepartment],
	}
	if raw := values[KeyUserID]; raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.logger.Warn("discarding stored user id", "value", raw, "error", err)
			id = 0
		}
		st.UserID = id
	}
	if st.Authenticated() && !st.Role.Valid() {
		s.logger.Warn("discarding stored session with unknown role", "role", st.Role)
		st = State{}
	}

	s.mu.Lock()
	s.state = st
	s.gen++
	s.mu.Unlock()

	s.logger.Debug("session hydrated", "authenticated", st.Authenticated(), "user_id", st.UserID)
	return nil
}

// Login records a successful authentication and schedules one asynchronous
// department lookup. The caller has already validated the credentials.
// Storage failures are logged, never returned.
func (s *Store) Login(ctx context.Context, res hms.AuthResult) {
	pairs := map[string]string{
		KeyToken:        res.Token,
		KeyRefreshToken: res.RefreshToken,
		KeyUserID:       strconv.FormatInt(res.UserID, 10),
		KeyFullName:     res.FullName,
		KeyEmail:        res.Email,
		KeyRole:         string(res.Role),
	}
	s.writeMu.Lock()
	if err := s.kv.SetMany(ctx, pairs); err != nil {
		s.logger.Warn("persist session failed", "error", err)
	}
	// A department from an earlier session must not leak into this one.
	if err := s.kv.Delete(ctx, KeyDepartment); err != nil {
		s.logger.Warn("clear stale department failed", "error", err)
	}

	s.mu.Lock()
	s.state = State{
		Token:        res.Token,
		RefreshToken: res.RefreshToken,
		UserID:       res.UserID,
		FullName:     res.FullName,
		Email:        res.Email,
		Role:         res.Role,
	}
	s.gen++
	s.mu.Unlock()
	s.writeMu.Unlock()

	s.logger.Info("signed in", "user_id", res.UserID, "role", res.Role)

	s.lookups.Add(1)
	go func() {
		defer s.lookups.Done()
		lookupCtx, cancel := context.WithTimeout(s.ctx, DepartmentTimeout)
		defer cancel()
		s.FetchDepartment(lookupCtx)
	}()
}

// Logout clears every session key from storage and resets memory.
// Safe to call when already signed out.
func (s *Store) Logout(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.kv.Delete(ctx, Keys...); err != nil {
		s.logger.Warn("clear session storage failed", "error", err)
	}

	s.mu.Lock()
	wasAuthenticated := s.state.Authenticated()
	s.state = State{}
	s.gen++
	s.mu.Unlock()

	if wasAuthenticated {
		s.logger.Info("signed out")
	}
}

// FetchDepartment looks up the signed-in user's department and stores it,
// clearing it when the profile has none. It does nothing without a user id.
// Failures are swallowed and leave the department unset.
func (s *Store) FetchDepartment(ctx context.Context) {
	s.mu.RLock()
	userID, gen, users := s.state.UserID, s.gen, s.users
	s.mu.RUnlock()

	if userID == 0 || users == nil {
		return
	}

	u, err := users.Get(ctx, userID)
	if err != nil {
		s.logger.Debug("department lookup failed", "user_id", userID, "error", err)
		return
	}
	dept := ""
	if u != nil {
		dept = u.Department
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		s.logger.Debug("dropping department for superseded session", "user_id", userID)
		return
	}
	s.state.Department = dept
	s.mu.Unlock()

	var perr error
	if dept == "" {
		perr = s.kv.Delete(ctx, KeyDepartment)
	} else {
		perr = s.kv.Set(ctx, KeyDepartment, dept)
	}
	if perr != nil {
		s.logger.Debug("persist department failed", "error", perr)
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// AccessToken implements hms.TokenSource.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// TokenExpiry returns the exp claim of the access token when it is a JWT.
// The signature is not verified; this is only used to warn the operator.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.AccessToken()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Wait blocks until scheduled department lookups have finished.
func (s *Store) Wait() {
	s.lookups.Wait()
}

// Close cancels pending lookups and waits for them to return.
func (s *Store) Close() {
	s.cancel()
	s.lookups.Wait()
}
