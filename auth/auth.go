// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid session token")

// Sessions maps opaque bearer tokens to student uids. Tokens identify who
// is submitting; they carry no other claims. A student re-logging-in gets
// a fresh token and the old one stops working.
type Sessions struct {
	mu      sync.RWMutex
	byToken map[string]int
	byUID   map[int]string
}

func NewSessions() *Sessions {
	return &Sessions{
		byToken: make(map[string]int),
		byUID:   make(map[int]string),
	}
}

// Issue creates a token for the student, revoking any earlier one.
func (s *Sessions) Issue(uid int) string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byUID[uid]; ok {
		delete(s.byToken, old)
	}
	s.byToken[token] = uid
	s.byUID[uid] = token
	return token
}

// Lookup resolves a token to a student uid.
func (s *Sessions) Lookup(token string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uid, ok := s.byToken[token]
	if !ok {
		return 0, ErrInvalidToken
	}
	return uid, nil
}

// Revoke invalidates a token and returns the uid it belonged to.
func (s *Sessions) Revoke(token string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, ok := s.byToken[token]
	if !ok {
		return 0, ErrInvalidToken
	}
	delete(s.byToken, token)
	delete(s.byUID, uid)
	return uid, nil
}
