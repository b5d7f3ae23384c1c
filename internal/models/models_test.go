package models

import (
	"errors"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"punctuation dropped", "Luxury Spa!", "luxury-spa"},
		{"space runs collapsed", "Car   Repair  Shops", "car-repair-shops"},
		{"digits and underscore kept", "24_7 Pharmacy", "24_7-pharmacy"},
		{"hyphen input removed", "Bed & Breakfast - Goa", "bed-breakfast-goa"},
		{"outer spaces trimmed", "  Gyms ", "gyms"},
		{"non ascii dropped", "Café Délice", "caf-dlice"},
		{"tab dropped not joined", "Car\tRepair", "carrepair"},
		{"newline dropped", "Home\nDecor", "homedecor"},
		{"no-break space dropped", "Spa\u00a0Centre", "spacentre"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugifyAlphabet(t *testing.T) {
	inputs := []string{"Hello, World!", "A--B", "x\ty\nz", "Ünïcode Spa", "  ..  "}
	for _, in := range inputs {
		s := Slugify(in)
		for _, r := range s {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
			if !ok {
				t.Fatalf("Slugify(%q) = %q contains %q", in, s, r)
			}
		}
	}
}

func TestUserDisplayName(t *testing.T) {
	name := "Asha"
	blank := "  "
	if got := (&User{Name: &name, Email: "a@x.io"}).DisplayName(); got != "Asha" {
		t.Errorf("DisplayName() = %q", got)
	}
	if got := (&User{Name: &blank, Email: "a@x.io"}).DisplayName(); got != "a@x.io" {
		t.Errorf("DisplayName() with blank name = %q", got)
	}
}

func TestAdminSessionActive(t *testing.T) {
	now := time.Now()
	s := AdminSession{ExpiresAt: now.Add(time.Hour)}
	if !s.Active(now) {
		t.Fatal("expected active session")
	}
	if s.Active(now.Add(2 * time.Hour)) {
		t.Fatal("expected expired session")
	}
	s.RevokedAt = &now
	if s.Active(now) {
		t.Fatal("expected revoked session to be inactive")
	}
}

func TestValidators(t *testing.T) {
	if !ValidRole("ADMIN") || ValidRole("admin") {
		t.Error("ValidRole must be case sensitive")
	}
	if !ValidEnquiryStatus("RESOLVED") || ValidEnquiryStatus("CLOSED") {
		t.Error("ValidEnquiryStatus accepts only PENDING and RESOLVED")
	}
	if got := NormalizeEmail("  Admin@Example.COM "); got != "admin@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestReviewRatingBounds(t *testing.T) {
	for _, rating := range []int{MinRating, 3, MaxRating} {
		r := Review{Rating: rating}
		if err := r.BeforeSave(nil); err != nil {
			t.Errorf("rating %d rejected: %v", rating, err)
		}
	}
	for _, rating := range []int{-1, MaxRating + 1} {
		r := Review{Rating: rating}
		if err := r.BeforeSave(nil); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}
