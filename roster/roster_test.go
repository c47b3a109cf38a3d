// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"errors"
	"strconv"
	"sync"
	"testing"
)

func TestAuthenticate(t *testing.T) {
	r := New(10)
	r.Add(101, "Ada Lovelace", "ada")

	tests := []struct {
		name     string
		uid      int
		username string
		wantErr  error
	}{
		{"valid", 101, "ada", nil},
		{"case insensitive", 101, "ADA", nil},
		{"wrong uid", 999, "ada", ErrBadUID},
		{"unknown username", 101, "adaa", ErrBadUsername},
		{"both unknown", 999, "nobody", ErrBadUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Authenticate(tt.uid, tt.username)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Authenticate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLookupUsername(t *testing.T) {
	r := New(10)
	r.Add(101, "Ada Lovelace", "ada")

	uid, err := r.LookupUsername("Ada")
	if err != nil || uid != 101 {
		t.Errorf("LookupUsername() = %d, %v; want 101, nil", uid, err)
	}
	if _, err := r.LookupUsername("nobody"); !errors.Is(err, ErrBadUsername) {
		t.Errorf("LookupUsername(unknown) error = %v, want ErrBadUsername", err)
	}
}

func TestRegisterNewStudent(t *testing.T) {
	r := New(10)

	s, err := r.Register(200, 200, "Grace", "Grace Hopper")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if s.Username != "grace" {
		t.Errorf("Username = %q, want lowercased", s.Username)
	}
	if err := r.Authenticate(200, "grace"); err != nil {
		t.Errorf("Authenticate() after register error = %v", err)
	}
}

func TestRegisterUIDMismatch(t *testing.T) {
	r := New(10)
	_, err := r.Register(200, 201, "grace", "Grace Hopper")
	if !errors.Is(err, ErrUIDMismatch) {
		t.Errorf("Register() error = %v, want ErrUIDMismatch", err)
	}
	if r.Count() != 0 {
		t.Error("failed registration added a student")
	}
}

func TestRegisterBindsImportedStudent(t *testing.T) {
	r := New(10)
	r.Add(101, "Ada Lovelace", "")

	if _, err := r.Register(101, 101, "ada", ""); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	s, _ := r.Student(101)
	if s.Username != "ada" || s.Fullname != "Ada Lovelace" {
		t.Errorf("Student(101) = %+v, want username bound onto imported entry", s)
	}

	// The bind is one-time
	_, err := r.Register(101, 101, "countess", "")
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("rebind error = %v, want ErrAlreadyRegistered", err)
	}
}

func TestRegisterUsernameTaken(t *testing.T) {
	r := New(10)
	r.Add(101, "Ada Lovelace", "ada")

	_, err := r.Register(102, 102, "ada", "Impostor")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("Register() error = %v, want ErrUsernameTaken", err)
	}
}

func TestCodesUniqueAndStable(t *testing.T) {
	r := New(5) // smaller than the student count, forcing pool growth

	seen := make(map[int]bool)
	for uid := 1; uid <= 20; uid++ {
		s := r.Add(uid, "Student "+strconv.Itoa(uid), "user"+strconv.Itoa(uid))
		if seen[s.Code] {
			t.Errorf("code %d handed out twice", s.Code)
		}
		seen[s.Code] = true
	}

	// Re-adding a student preserves their code
	before, _ := r.Student(7)
	r.Add(7, "Student Seven Renamed", "user7")
	after, _ := r.Student(7)
	if before.Code != after.Code {
		t.Errorf("code changed on re-add: %d -> %d", before.Code, after.Code)
	}
}

func TestLoginTracking(t *testing.T) {
	r := New(10)
	r.Add(1, "A", "a")
	r.Add(2, "B", "b")

	r.Login(1)
	r.Login(2)
	r.Login(1) // idempotent
	if r.ActiveCount() != 2 {
		t.Errorf("ActiveCount() = %d, want 2", r.ActiveCount())
	}
	r.Logout(1)
	if r.ActiveCount() != 1 {
		t.Errorf("ActiveCount() after logout = %d, want 1", r.ActiveCount())
	}
}

func TestConcurrentRegistration(t *testing.T) {
	r := New(10)

	var wg sync.WaitGroup
	for uid := 1; uid <= 30; uid++ {
		wg.Add(1)
		go func(uid int) {
			defer wg.Done()
			name := "user" + strconv.Itoa(uid)
			if _, err := r.Register(uid, uid, name, "Student"); err != nil {
				t.Errorf("Register(%d) error = %v", uid, err)
			}
			r.Login(uid)
		}(uid)
	}
	wg.Wait()

	if r.Count() != 30 || r.ActiveCount() != 30 {
		t.Errorf("Count/ActiveCount = %d/%d, want 30/30", r.Count(), r.ActiveCount())
	}
}
