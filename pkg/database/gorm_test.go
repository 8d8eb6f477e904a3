package database

import (
	"strings"
	"testing"
)

func validConfig() GormConfig {
	return GormConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "secret",
		DBName:   "ksg_support",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GormConfig)
		wantErr string
	}{
		{"valid", func(c *GormConfig) {}, ""},
		{"missing host", func(c *GormConfig) { c.Host = "" }, "host"},
		{"missing port", func(c *GormConfig) { c.Port = "" }, "port"},
		{"non-numeric port", func(c *GormConfig) { c.Port = "54x2" }, "not numeric"},
		{"missing user", func(c *GormConfig) { c.User = "" }, "user"},
		{"missing dbname", func(c *GormConfig) { c.DBName = "" }, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := validConfig()

	dsn := cfg.DSN()
	for _, frag := range []string{"host=localhost", "port=5432", "user=postgres", "dbname=ksg_support", "sslmode=disable"} {
		if !strings.Contains(dsn, frag) {
			t.Errorf("DSN missing %q: %s", frag, dsn)
		}
	}

	cfg.UseTLS = true
	if !strings.Contains(cfg.DSN(), "sslmode=require") {
		t.Errorf("TLS config did not set sslmode=require: %s", cfg.DSN())
	}
}
