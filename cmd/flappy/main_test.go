package main

import (
	"path/filepath"
	"testing"
)

func TestUnlockMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "unlocked")

	if _, ok := unlockedAt(path); ok {
		t.Fatal("unlockedAt() reported a missing marker")
	}
	if err := writeUnlockMarker(path); err != nil {
		t.Fatalf("writeUnlockMarker() failed: %v", err)
	}
	if _, ok := unlockedAt(path); !ok {
		t.Error("unlockedAt() = false after writing the marker, expected true")
	}
}

func TestPort(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":23234", "23234"},
		{"0.0.0.0:2222", "2222"},
		{"[::1]:22", "22"},
		{"localhost", "localhost"},
	}

	for _, tc := range tests {
		if got := port(tc.addr); got != tc.want {
			t.Errorf("port(%q) = %q, expected %q", tc.addr, got, tc.want)
		}
	}
}

func TestLookupVariant(t *testing.T) {
	if _, err := lookupVariant("classic"); err != nil {
		t.Errorf("lookupVariant(classic) failed: %v", err)
	}
	if _, err := lookupVariant("snake"); err == nil {
		t.Error("lookupVariant(snake) should fail")
	}
}
