package version

import "testing"

func TestGetFullVersion(t *testing.T) {
	if got := GetFullVersion(); got != "dev" {
		t.Errorf("dev build: GetFullVersion() = %q, want dev", got)
	}

	v, c, d := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = v, c, d }()
	Version, GitCommit, BuildDate = "1.2.0", "abc123", "2026-01-01"
	want := "1.2.0 (abc123, built 2026-01-01)"
	if got := GetFullVersion(); got != want {
		t.Errorf("GetFullVersion() = %q, want %q", got, want)
	}
	if GetVersion() != "1.2.0" {
		t.Errorf("GetVersion() = %q", GetVersion())
	}
}
