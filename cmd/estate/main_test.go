package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/naveenspark/estate/pkg/domain"
	"github.com/naveenspark/estate/pkg/storage"
)

// useEnv points the configuration at api with a sqlite store under a temp dir.
func useEnv(t *testing.T, api string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ESTATE_API_URL", api)
	t.Setenv("ESTATE_STORE", "sqlite")
	t.Setenv("ESTATE_STORE_PATH", filepath.Join(dir, "session.db"))
	t.Setenv("ESTATE_LOG_FILE", filepath.Join(dir, "estate.log"))
	t.Setenv("ESTATE_LOG_LEVEL", "debug")
	return filepath.Join(dir, "session.db")
}

// seed stores a session the way a successful login would.
func seed(t *testing.T, path string, u *domain.User) {
	t.Helper()
	seedToken(t, path, u, "access-1")
}

func seedToken(t *testing.T, path string, u *domain.User, access string) {
	t.Helper()
	ctx := context.Background()
	s, err := storage.OpenSQLiteStore(ctx, path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close() //nolint:errcheck
	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range map[storage.Key]string{
		storage.KeyAccessToken:  access,
		storage.KeyRefreshToken: "refresh-1",
		storage.KeyUser:         string(raw),
	} {
		if err := s.Set(ctx, k, v); err != nil {
			t.Fatalf("seed %s: %v", k, err)
		}
	}
}

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"--version"}, &out); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "estate dev\n" {
		t.Errorf("version output = %q", got)
	}
}

func TestRunHelp(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"help"}, &out); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"estate login", "estate whoami", "ESTATE_API_URL"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestRunUnknownCommand(t *testing.T) {
	err := run([]string{"frobnicate"}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "frobnicate") {
		t.Errorf("err = %v", err)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	useEnv(t, "ftp://example.com")
	err := run([]string{"whoami"}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "ESTATE_API_URL") {
		t.Errorf("err = %v", err)
	}
}

func TestWhoamiSignedOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))
	defer srv.Close()
	useEnv(t, srv.URL)

	var out bytes.Buffer
	if err := run([]string{"whoami"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Not signed in") {
		t.Errorf("output = %q", out.String())
	}
}

func TestWhoamiSignedIn(t *testing.T) {
	user := &domain.User{ID: 3, Email: "pm@example.com", FirstName: "Pat", LastName: "Manager"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/profile/" {
			t.Errorf("unexpected request %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer access-1" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":3,"email":"pm@example.com","first_name":"Pat","last_name":"Manager","is_superadmin":true,"role_details":{"id":1,"name":"admin","can_manage_users":true}}`)) //nolint:errcheck
	}))
	defer srv.Close()
	seed(t, useEnv(t, srv.URL), user)

	var out bytes.Buffer
	if err := run([]string{"whoami"}, &out); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Pat Manager", "superadmin", "pm@example.com", "admin", "manage_users"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("whoami output missing %q:\n%s", want, out.String())
		}
	}
}

func TestWhoamiShowsTokenExpiry(t *testing.T) {
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer "+access {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":3,"email":"pm@example.com","first_name":"Pat"}`)) //nolint:errcheck
	}))
	defer srv.Close()
	seedToken(t, useEnv(t, srv.URL), &domain.User{ID: 3, Email: "pm@example.com"}, access)

	var out bytes.Buffer
	if err := run([]string{"whoami"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "expires in ") {
		t.Errorf("whoami output missing token expiry:\n%s", out.String())
	}
}

func TestWhoamiOpaqueTokenHasNoExpiry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":3,"email":"pm@example.com"}`)) //nolint:errcheck
	}))
	defer srv.Close()
	seed(t, useEnv(t, srv.URL), &domain.User{ID: 3, Email: "pm@example.com"})

	var out bytes.Buffer
	if err := run([]string{"whoami"}, &out); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "expire") {
		t.Errorf("opaque token printed an expiry:\n%s", out.String())
	}
}

func TestPrintExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		exp  time.Time
		want string
	}{
		{now.Add(90 * time.Second), "expires in 1m30s"},
		{now.Add(-2 * time.Minute), "expired 2m0s ago"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		printExpiry(&out, tt.exp, now)
		if !strings.Contains(out.String(), tt.want) {
			t.Errorf("printExpiry(%v) = %q, want %q", tt.exp, out.String(), tt.want)
		}
	}
}

func TestLogout(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/auth/logout/" {
			t.Errorf("unexpected request %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	path := useEnv(t, srv.URL)
	seed(t, path, &domain.User{ID: 3, Email: "pm@example.com"})

	var out bytes.Buffer
	if err := run([]string{"logout"}, &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "Signed out.\n" {
		t.Errorf("output = %q", out.String())
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("logout endpoint called %d times", n)
	}

	out.Reset()
	if err := run([]string{"logout"}, &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "Already signed out.\n" {
		t.Errorf("second logout output = %q", out.String())
	}
}
