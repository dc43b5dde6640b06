package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// minSearchLength is the shortest free-text term that narrows a search.
// Anything shorter is ignored, not rejected.
const minSearchLength = 2

var (
	ErrInvalidAgeRange  = errors.New("min_age must not be greater than max_age")
	ErrInvalidDateRange = errors.New("start_date must not be after end_date")
	ErrNegativeAge      = errors.New("age filters must not be negative")
)

// PatientFilter is a domain-level filter for querying patients.
// Used by the repository layer to avoid coupling with delivery DTOs.
// All fields are optional; zero values mean "not filtered".
type PatientFilter struct {
	Search     string     // Free text, ILIKE across name, NIK, record number, email, phone
	Gender     string     // "M" or "F"
	MinAge     *int       // Converted to a latest acceptable birth date
	MaxAge     *int       // Converted to an earliest acceptable birth date
	StartDate  string     // Registration range start, YYYY-MM-DD, inclusive
	EndDate    string     // Registration range end, YYYY-MM-DD, inclusive
	DoctorID   *uuid.UUID // Patients with at least one appointment for this doctor
	IsActive   *bool
	NewOnly    bool // Registered within the last 30 days
	HasAllergy bool
	SortBy     string // created_at, full_name, birth_date, or virtual "age"
	SortDir    string // asc or desc
	Page       int
	Limit      int
}

// Validate rejects malformed filter combinations before any query runs.
func (f *PatientFilter) Validate() error {
	if f.MinAge != nil && *f.MinAge < 0 {
		return ErrNegativeAge
	}
	if f.MaxAge != nil && *f.MaxAge < 0 {
		return ErrNegativeAge
	}
	if f.MinAge != nil && f.MaxAge != nil && *f.MinAge > *f.MaxAge {
		return ErrInvalidAgeRange
	}
	if f.StartDate != "" && f.EndDate != "" {
		start, err := time.Parse("2006-01-02", f.StartDate)
		if err != nil {
			return err
		}
		end, err := time.Parse("2006-01-02", f.EndDate)
		if err != nil {
			return err
		}
		if start.After(end) {
			return ErrInvalidDateRange
		}
	}
	return nil
}

// SearchTerm returns the trimmed free-text term, or "" when it is too short
// to narrow the result set.
func (f *PatientFilter) SearchTerm() string {
	term := strings.TrimSpace(f.Search)
	if len(term) < minSearchLength {
		return ""
	}
	return term
}

// Normalize clamps pagination and resolves the sort column.
// The virtual "age" sort maps to birth_date with inverted direction:
// ascending age means descending birth date.
func (f *PatientFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	dir := strings.ToLower(f.SortDir)
	if dir != "asc" && dir != "desc" {
		dir = "desc"
	}

	switch f.SortBy {
	case "full_name", "birth_date", "created_at":
	case "age":
		f.SortBy = "birth_date"
		if dir == "asc" {
			dir = "desc"
		} else {
			dir = "asc"
		}
	default:
		f.SortBy = "created_at"
	}
	f.SortDir = dir
}
