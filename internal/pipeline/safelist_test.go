package pipeline

import (
	"errors"
	"testing"
)

func TestDefaultSafelist(t *testing.T) {
	t.Parallel()

	s, err := NewSafelist(DefaultSafelist())
	if err != nil {
		t.Fatalf("NewSafelist(DefaultSafelist()) unexpected error: %v", err)
	}

	tests := []struct {
		name         string
		wantStandard bool
		wantGreedy   bool
	}{
		{"md:flex", true, false},
		{"lg-grid", true, false},
		{"sm", true, false},
		{"xl:hidden", true, false},
		{"role", true, false},
		{"menurole", true, false},
		{"aria-expanded", true, false},
		{"is-open", true, false},
		{"chroma", false, true},
		{"comment-list", false, true},
		{"video-embed", false, true},
		{"youtube", false, true},
		{"button", false, false},
		{"amd", false, false},
		{"roles", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := s.Standard(tt.name); got != tt.wantStandard {
				t.Errorf("Standard(%q) = %v, want %v", tt.name, got, tt.wantStandard)
			}
			if got := s.Greedy(tt.name); got != tt.wantGreedy {
				t.Errorf("Greedy(%q) = %v, want %v", tt.name, got, tt.wantGreedy)
			}
		})
	}
}

func TestNewSafelist_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []SafelistEntry
	}{
		{"bad pattern", []SafelistEntry{{Pattern: "^(md"}}},
		{"unknown kind", []SafelistEntry{{Pattern: "^md", Kind: "deep"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewSafelist(tt.entries)
			if !errors.Is(err, ErrInvalidSafelist) {
				t.Errorf("NewSafelist() error = %v, want ErrInvalidSafelist", err)
			}
		})
	}
}

func TestNewSafelist_EmptyKindIsStandard(t *testing.T) {
	t.Parallel()

	s, err := NewSafelist([]SafelistEntry{{Pattern: "^toast"}})
	if err != nil {
		t.Fatalf("NewSafelist() unexpected error: %v", err)
	}
	if !s.Standard("toast-error") || s.Greedy("toast-error") {
		t.Error("entry without kind should be standard")
	}
}
