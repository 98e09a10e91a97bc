package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/samirrijal/digitalshield/internal/core/domain"
	"github.com/samirrijal/digitalshield/internal/pkg/auth"
	"github.com/samirrijal/digitalshield/internal/pkg/caseid"
)

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	return cmd, &out
}

func TestCaseIDCmd(t *testing.T) {
	caseIDCount = 3
	defer func() { caseIDCount = 1 }()

	cmd, out := newTestCmd()
	if err := runCaseID(cmd, nil); err != nil {
		t.Fatalf("runCaseID failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 ids, got %d: %q", len(lines), out.String())
	}
	for _, id := range lines {
		if !caseid.Valid(id) {
			t.Errorf("malformed case id %q", id)
		}
	}
}

func TestCaseIDCmd_BadCount(t *testing.T) {
	caseIDCount = 0
	defer func() { caseIDCount = 1 }()

	cmd, _ := newTestCmd()
	if err := runCaseID(cmd, nil); err == nil {
		t.Error("expected error for zero count")
	}
}

func TestCheckLinkCmd(t *testing.T) {
	tests := []struct {
		arg  string
		want domain.LinkStatus
		url  string
	}{
		{"tinyurl.com/abc", domain.LinkDangerous, "https://tinyurl.com/abc"},
		{"http://example.org/docs", domain.LinkSafe, "http://example.org/docs"},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			cmd, out := newTestCmd()
			if err := runCheckLink(cmd, []string{tt.arg}); err != nil {
				t.Fatalf("runCheckLink failed: %v", err)
			}
			var res domain.LinkCheckResult
			if err := json.Unmarshal(out.Bytes(), &res); err != nil {
				t.Fatalf("decode output: %v", err)
			}
			if res.Status != tt.want || res.URL != tt.url {
				t.Errorf("got %s %s, want %s %s", res.Status, res.URL, tt.want, tt.url)
			}
		})
	}

	cmd, _ := newTestCmd()
	if err := runCheckLink(cmd, []string{"ftp://example.org"}); err == nil {
		t.Error("expected error for ftp scheme")
	}
}

func TestTokenCmd(t *testing.T) {
	t.Setenv("DIGITALSHIELD_AUTH_JWT_SECRET", "cli-test-secret")
	tokenUser, tokenRole = "user-9", "admin"
	defer func() { tokenUser, tokenRole = "", string(auth.RoleUser) }()

	cmd, out := newTestCmd()
	if err := runToken(cmd, nil); err != nil {
		t.Fatalf("runToken failed: %v", err)
	}

	id, err := auth.ParseToken(strings.TrimSpace(out.String()), []byte("cli-test-secret"), "digitalshield")
	if err != nil {
		t.Fatalf("minted token does not parse: %v", err)
	}
	if id.UserID != "user-9" || !id.IsAdmin() {
		t.Errorf("unexpected identity %+v", id)
	}
}

func TestTokenCmd_UnknownRole(t *testing.T) {
	tokenUser, tokenRole = "user-9", "root"
	defer func() { tokenUser, tokenRole = "", string(auth.RoleUser) }()

	cmd, _ := newTestCmd()
	if err := runToken(cmd, nil); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestPublishLocationCmd_RejectsOutOfRange(t *testing.T) {
	locUser, locLat, locLon = "user-1", 95, 0
	defer func() { locUser, locLat, locLon = "", 0, 0 }()

	cmd, _ := newTestCmd()
	err := runPublishLocation(cmd, nil)
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("expected out of range error, got %v", err)
	}
}
