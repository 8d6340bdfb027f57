package buildinfo

import (
	"strings"
	"testing"
)

func TestSet(t *testing.T) {
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })

	Set("v1.2.3", "abc123", "2025-01-01")
	if Version != "v1.2.3" || Commit != "abc123" || Date != "2025-01-01" {
		t.Fatalf("Set() = %s/%s/%s", Version, Commit, Date)
	}

	Set("", "", "")
	if Version != "v1.2.3" {
		t.Errorf("empty Set() should keep Version, got %q", Version)
	}
}

func TestTemplate(t *testing.T) {
	v := Version
	t.Cleanup(func() { Version = v })

	Version = "v9.9.9"
	if got := Template(); !strings.Contains(got, "v9.9.9") || !strings.HasPrefix(got, "{{.Name}}") {
		t.Errorf("Template() = %q", got)
	}
	if got := String(); !strings.HasPrefix(got, "version: v9.9.9\n") {
		t.Errorf("String() = %q", got)
	}
}
