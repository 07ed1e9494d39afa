package validate

import (
	"errors"
	"strings"
	"testing"
	"time"

	"realhub-app/internal/core/domain"
)

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *Errors
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T, want *Errors", err)
	}
	out := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestPropertyValid(t *testing.T) {
	p := domain.PropertyPayload{
		Title:      "Riverside Condo",
		Price:      4500000,
		Location:   "Bangkok",
		Bedrooms:   2,
		AreaSqm:    68,
		CategoryID: 1,
	}
	if err := Property(p); err != nil {
		t.Fatalf("Property = %v, want nil", err)
	}
}

func TestPropertyCollectsAllFailures(t *testing.T) {
	err := Property(domain.PropertyPayload{Title: "  ", Price: -1, Bedrooms: -2})
	got := fields(t, err)

	for _, field := range []string{"title", "location", "price", "bedrooms", "area_sqm", "category_id"} {
		if _, ok := got[field]; !ok {
			t.Errorf("missing field error for %q", field)
		}
	}
	if !strings.Contains(err.Error(), "price: must be greater than zero") {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestBannerDateOrdering(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -7)

	err := Banner(domain.BannerPayload{Title: "Spring Sale", ImageURL: "https://cdn.example.com/b.png", StartsAt: &start, EndsAt: &end})
	got := fields(t, err)
	if got["ends_at"] == "" {
		t.Fatal("expected ends_at ordering failure")
	}

	end = start.AddDate(0, 0, 7)
	if err := Banner(domain.BannerPayload{Title: "Spring Sale", ImageURL: "https://cdn.example.com/b.png", StartsAt: &start, EndsAt: &end}); err != nil {
		t.Fatalf("Banner = %v, want nil", err)
	}
}

func TestBannerRequiredFields(t *testing.T) {
	got := fields(t, Banner(domain.BannerPayload{Position: -1}))
	for _, field := range []string{"title", "image_url", "position"} {
		if _, ok := got[field]; !ok {
			t.Errorf("missing field error for %q", field)
		}
	}
}

func TestPhone(t *testing.T) {
	cases := []struct {
		phone string
		ok    bool
	}{
		{"0812345678", true},
		{"812345678", true},
		{" 0812345678 ", true},
		{"", false},
		{"12345678", false},
		{"08123456789", false},
		{"08123456ab", false},
	}
	for _, tc := range cases {
		err := Phone(tc.phone)
		if tc.ok && err != nil {
			t.Errorf("Phone(%q) = %v, want nil", tc.phone, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("Phone(%q) = nil, want error", tc.phone)
		}
	}
}
