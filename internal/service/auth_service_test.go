package service

import (
	"testing"

	"ksg-support-be/internal/config"
)

func TestIsAdminEmail(t *testing.T) {
	s := &authService{authConfig: config.AuthConfig{
		AdminEmails: "admin@ksg.ac.ke, Registrar@ksg.ac.ke ,ict@ksg.ac.ke",
	}}

	tests := []struct {
		email string
		want  bool
	}{
		{"admin@ksg.ac.ke", true},
		{"registrar@ksg.ac.ke", true}, // allowlist entries are case-folded
		{"ict@ksg.ac.ke", true},
		{"student@ksg.ac.ke", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := s.isAdminEmail(tt.email); got != tt.want {
				t.Errorf("isAdminEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsAdminEmailEmptyAllowlist(t *testing.T) {
	s := &authService{authConfig: config.AuthConfig{AdminEmails: ""}}
	if s.isAdminEmail("") {
		t.Error("empty allowlist must grant nobody, not empty-string callers")
	}
	if s.isAdminEmail("anyone@example.com") {
		t.Error("empty allowlist must grant nobody")
	}
}
