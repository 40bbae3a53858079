package version

import "testing"

func TestString_Ldflags(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3"
	if got := String(); got != "v1.2.3" {
		t.Errorf("expected v1.2.3, got %q", got)
	}
}

func TestString_Fallback(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = ""
	if String() == "" {
		t.Error("expected a non-empty fallback version")
	}
}

func TestShortCommit_Ldflags(t *testing.T) {
	old := Commit
	t.Cleanup(func() { Commit = old })

	Commit = "abc1234"
	if got := ShortCommit(); got != "abc1234" {
		t.Errorf("expected abc1234, got %q", got)
	}
}

func TestBuildDate_NeverEmpty(t *testing.T) {
	if BuildDate() == "" {
		t.Error("expected a non-empty build date")
	}
}
