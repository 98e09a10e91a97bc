package postgres

import (
	"strings"
	"testing"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

func TestMigrations_Ordered(t *testing.T) {
	names, err := Migrations()
	if err != nil {
		t.Fatalf("list migrations: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 migrations, got %v", names)
	}
	if names[0] != "migrations/001_init.sql" || names[1] != "migrations/002_content.sql" {
		t.Errorf("unexpected order %v", names)
	}
}

func TestMigrations_CreateTables(t *testing.T) {
	names, _ := Migrations()
	var all strings.Builder
	for _, n := range names {
		data, err := migrationFS.ReadFile(n)
		if err != nil {
			t.Fatalf("read %s: %v", n, err)
		}
		all.Write(data)
	}
	for _, table := range []string{
		"incident_reports", "profiles", "alerts", "link_checks", "chat_messages",
		"resources", "monitored_areas", "security_audit_log",
	} {
		if !strings.Contains(all.String(), "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Errorf("missing table %s", table)
		}
	}
}

func TestContainsPattern(t *testing.T) {
	tests := map[string]string{
		"phish":       "%phish%",
		"100%":        `%100\%%`,
		"card_fraud":  `%card\_fraud%`,
		`back\slash`:  `%back\\slash%`,
		"CASE-2026-_": `%CASE-2026-\_%`,
	}
	for in, want := range tests {
		if got := containsPattern(in); got != want {
			t.Errorf("containsPattern(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestListReportsQuery(t *testing.T) {
	q, args := listReportsQuery("user-1", domain.ReportFilter{
		Status: domain.StatusPending, Search: "50%_off", Limit: 20, Offset: 40,
	})
	if !strings.Contains(q, "ORDER BY created_at DESC, id DESC LIMIT $4 OFFSET $5") {
		t.Errorf("expected stable ordering with id tiebreaker, got %s", q)
	}
	if !strings.Contains(q, "user_id = $1 AND status = $2") {
		t.Errorf("unexpected where clause in %s", q)
	}
	if len(args) != 5 || args[2] != `%50\%\_off%` || args[3] != 20 || args[4] != 40 {
		t.Errorf("unexpected args %v", args)
	}

	q, args = listReportsQuery("", domain.ReportFilter{Limit: 10})
	if strings.Contains(q, "WHERE") || len(args) != 2 {
		t.Errorf("expected unfiltered query, got %s %v", q, args)
	}
}
