package validate

import (
	"fmt"
	"strings"

	"realhub-app/internal/core/domain"
)

// FieldError describes a single invalid field, surfaced inline in the UI
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is a validation failure. It is raised before any network call.
type Errors struct {
	Fields []FieldError
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add appends a field error
func (e *Errors) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// orNil returns nil when no field failed
func (e *Errors) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Property validates a property draft payload before submission
func Property(p domain.PropertyPayload) error {
	errs := &Errors{}
	if strings.TrimSpace(p.Title) == "" {
		errs.add("title", "required")
	}
	if strings.TrimSpace(p.Location) == "" {
		errs.add("location", "required")
	}
	if p.Price <= 0 {
		errs.add("price", "must be greater than zero")
	}
	if p.Bedrooms < 0 {
		errs.add("bedrooms", "must not be negative")
	}
	if p.AreaSqm <= 0 {
		errs.add("area_sqm", "must be greater than zero")
	}
	if p.CategoryID == 0 {
		errs.add("category_id", "required")
	}
	return errs.orNil()
}

// Banner validates a banner draft payload before submission
func Banner(b domain.BannerPayload) error {
	errs := &Errors{}
	if strings.TrimSpace(b.Title) == "" {
		errs.add("title", "required")
	}
	if strings.TrimSpace(b.ImageURL) == "" {
		errs.add("image_url", "required")
	}
	if b.Position < 0 {
		errs.add("position", "must not be negative")
	}
	if b.StartsAt != nil && b.EndsAt != nil && b.EndsAt.Before(*b.StartsAt) {
		errs.add("ends_at", "must not be before starts_at")
	}
	return errs.orNil()
}

// Phone validates a phone number for the OTP flow (digits, 9-10 chars, may
// carry a leading zero the backend strips)
func Phone(phone string) error {
	errs := &Errors{}
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		errs.add("phone", "required")
		return errs.orNil()
	}
	if len(trimmed) < 9 || len(trimmed) > 10 {
		errs.add("phone", "must be 9-10 digits")
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			errs.add("phone", "must contain digits only")
			break
		}
	}
	return errs.orNil()
}
