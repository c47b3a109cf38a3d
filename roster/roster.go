// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
)

var (
	ErrBadUID            = errors.New("incorrect student id for this username")
	ErrBadUsername       = errors.New("unknown username")
	ErrUIDMismatch       = errors.New("student ids do not match")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrAlreadyRegistered = errors.New("student already has a username")
)

// Student is one roster entry. Code is a random anonymized identifier
// assigned exactly once and never reused; Username is bound at most once
// after import.
type Student struct {
	UID      int    `json:"uid"`
	Fullname string `json:"fullname"`
	Username string `json:"username,omitempty"`
	Code     int    `json:"-"`
}

// Roster is the in-memory student directory and live login set. It is safe
// for concurrent use by request handlers.
type Roster struct {
	mu         sync.RWMutex
	students   map[int]*Student
	byUsername map[string]*Student
	logins     map[int]bool
	codes      []int
	nextCode   int
}

// New creates an empty roster with a pre-shuffled pool of nmax anonymized
// codes.
func New(nmax int) *Roster {
	if nmax <= 0 {
		nmax = 1000
	}
	codes := make([]int, nmax)
	for i := range codes {
		codes[i] = i
	}
	rand.Shuffle(len(codes), func(i, j int) {
		codes[i], codes[j] = codes[j], codes[i]
	})
	return &Roster{
		students:   make(map[int]*Student),
		byUsername: make(map[string]*Student),
		logins:     make(map[int]bool),
		codes:      codes,
	}
}

// takeCode requires r.mu held. The pool is extended with a fresh shuffled
// block if it runs dry, so a code is never handed out twice.
func (r *Roster) takeCode() int {
	if r.nextCode >= len(r.codes) {
		start := len(r.codes)
		block := make([]int, start)
		for i := range block {
			block[i] = start + i
		}
		rand.Shuffle(len(block), func(i, j int) {
			block[i], block[j] = block[j], block[i]
		})
		r.codes = append(r.codes, block...)
	}
	c := r.codes[r.nextCode]
	r.nextCode++
	return c
}

// Add inserts a student loaded from the store, assigning an anonymized code.
// An existing entry for the same uid is replaced (admin override).
func (r *Roster) Add(uid int, fullname, username string) *Student {
	r.mu.Lock()
	defer r.mu.Unlock()

	username = strings.ToLower(username)
	s := &Student{UID: uid, Fullname: fullname, Username: username, Code: r.takeCode()}
	if old, ok := r.students[uid]; ok {
		s.Code = old.Code
		if old.Username != "" {
			delete(r.byUsername, old.Username)
		}
	}
	r.students[uid] = s
	if username != "" {
		r.byUsername[username] = s
	}
	return s
}

// Authenticate validates a login attempt against the roster.
func (r *Roster) Authenticate(uid int, username string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	username = strings.ToLower(username)
	s, ok := r.byUsername[username]
	if !ok {
		if _, known := r.students[uid]; known {
			// The id exists under a different username; most likely
			// a typo in the username.
			return fmt.Errorf("%w: did you mistype your username?", ErrBadUsername)
		}
		return fmt.Errorf("%w: %s", ErrBadUsername, username)
	}
	if s.UID != uid {
		return ErrBadUID
	}
	return nil
}

// LookupUsername resolves a username to a student id.
func (r *Roster) LookupUsername(username string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byUsername[strings.ToLower(username)]
	if !ok {
		return 0, ErrBadUsername
	}
	return s.UID, nil
}

// Student returns the roster entry for a student id.
func (r *Roster) Student(uid int) (Student, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.students[uid]
	if !ok {
		return Student{}, false
	}
	return *s, true
}

// Count returns the number of students on the roster.
func (r *Roster) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.students)
}

// Register self-registers a student: a brand-new student record, or a
// one-time username binding for an imported student who has none yet. The
// student id must be entered twice and match. Returns the resulting entry;
// the caller persists it.
func (r *Roster) Register(uid, uid2 int, username, fullname string) (Student, error) {
	if uid != uid2 {
		return Student{}, ErrUIDMismatch
	}
	username = strings.ToLower(username)
	if username == "" {
		return Student{}, ErrBadUsername
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if taken, ok := r.byUsername[username]; ok && taken.UID != uid {
		return Student{}, ErrUsernameTaken
	}
	s, ok := r.students[uid]
	if !ok {
		s = &Student{UID: uid, Fullname: fullname, Username: username, Code: r.takeCode()}
		r.students[uid] = s
		r.byUsername[username] = s
		return *s, nil
	}
	if s.Username != "" {
		return *s, ErrAlreadyRegistered
	}
	s.Username = username
	r.byUsername[username] = s
	return *s, nil
}

// Login marks a student as an active participant.
func (r *Roster) Login(uid int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins[uid] = true
}

// Logout removes a student from the active set.
func (r *Roster) Logout(uid int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.logins, uid)
}

// ActiveCount returns the number of logged-in students, the denominator for
// progress reporting.
func (r *Roster) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.logins)
}
