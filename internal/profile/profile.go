// Package profile keeps the hospital's display identity on the local
// machine. It is never sent to the backend.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/internal/storage"
)

// StorageKey is where the profile is persisted.
const StorageKey = "hospitalProfile"

// Profile is the hospital identity shown in headers and on printed documents.
type Profile struct {
	Name    string `json:"name" yaml:"name"`
	Tagline string `json:"tagline" yaml:"tagline"`
	Address string `json:"address" yaml:"address"`
	Phone   string `json:"phone" yaml:"phone"`
	Email   string `json:"email" yaml:"email"`
}

// Defaults is used for every field that has never been set.
var Defaults = Profile{
	Name:    "Helvino Hospital",
	Tagline: "Quality Healthcare Services",
	Address: "Nairobi, Kenya",
	Phone:   "+254 703 445 756",
	Email:   "helvinotechltd@gmail.com",
}

// Partial is a profile update; nil fields are left unchanged.
type Partial struct {
	Name    *string `json:"name,omitempty" yaml:"name,omitempty"`
	Tagline *string `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	Address *string `json:"address,omitempty" yaml:"address,omitempty"`
	Phone   *string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email   *string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Empty reports whether p changes nothing.
func (p Partial) Empty() bool {
	return p.Name == nil && p.Tagline == nil && p.Address == nil && p.Phone == nil && p.Email == nil
}

// Apply returns base with the non-nil fields of p written over it.
func (p Partial) Apply(base Profile) Profile {
	if p.Name != nil {
		base.Name = *p.Name
	}
	if p.Tagline != nil {
		base.Tagline = *p.Tagline
	}
	if p.Address != nil {
		base.Address = *p.Address
	}
	if p.Phone != nil {
		base.Phone = *p.Phone
	}
	if p.Email != nil {
		base.Email = *p.Email
	}
	return base
}

// Store holds the current profile and writes updates through to kv.
type Store struct {
	kv storage.KV

	mu      sync.RWMutex
	current Profile
}

// Load reads the stored profile, merging it over Defaults. Missing or
// unparseable data yields Defaults; only storage read failures are returned.
func Load(ctx context.Context, kv storage.KV) (*Store, error) {
	s := &Store{kv: kv, current: Defaults}

	raw, ok, err := kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if !ok || raw == "" {
		return s, nil
	}

	// Decoding into a copy of the defaults keeps them for absent fields.
	merged := Defaults
	if err := json.Unmarshal([]byte(raw), &merged); err != nil {
		return s, nil
	}
	s.current = merged
	return s, nil
}

// Get returns the current profile.
func (s *Store) Get() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update merges p into the current profile and persists the full result.
// Memory is only updated once the write succeeds.
func (s *Store) Update(ctx context.Context, p Partial) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := p.Apply(s.current)
	data, err := json.Marshal(updated)
	if err != nil {
		return s.current, fmt.Errorf("encode profile: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		return s.current, fmt.Errorf("save profile: %w", err)
	}
	s.current = updated
	return updated, nil
}
