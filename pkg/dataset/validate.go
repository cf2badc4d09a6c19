package dataset

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/agentscape/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their dataset column names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks every record and returns the first problem found, naming
// the offending row. Attribute values must lie in [0, 1]; URLs, when set,
// must be absolute.
func Validate(records []Record) error {
	for i := range records {
		if err := ValidateRecord(records[i]); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDataset, err, "record %d (%q)", i+1, records[i].Name)
		}
	}
	return nil
}

// ValidateRecord checks a single record.
func ValidateRecord(r Record) error {
	if err := errors.ValidateEntityName(r.Name); err != nil {
		return err
	}
	if err := validate.Struct(r); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	e := verrs[0]
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s: field is required", field)
	case "gte", "lte":
		return fmt.Errorf("%s: must be between 0 and 1, got %v", field, deref(e.Value()))
	case "max":
		return fmt.Errorf("%s: must not exceed %s characters", field, e.Param())
	case "url":
		return fmt.Errorf("%s: not an absolute URL: %q", field, e.Value())
	default:
		return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
	}
}

func deref(v any) any {
	if p, ok := v.(*float64); ok && p != nil {
		return *p
	}
	return v
}

// UniqueNames returns a copy of records in which repeated names get a
// " (2)", " (3)", ... suffix in input order. The first occurrence keeps its
// name. Hit testing identifies points by name, so callers run this before
// layout.
func UniqueNames(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)

	taken := make(map[string]bool, len(out))
	for _, r := range out {
		taken[r.Name] = true
	}
	seen := make(map[string]int, len(out))
	for i := range out {
		name := out[i].Name
		seen[name]++
		if seen[name] == 1 {
			continue
		}
		n := seen[name]
		candidate := fmt.Sprintf("%s (%d)", name, n)
		for taken[candidate] {
			n++
			candidate = fmt.Sprintf("%s (%d)", name, n)
		}
		seen[name] = n
		taken[candidate] = true
		out[i].Name = candidate
	}
	return out
}

// Duplicates lists names that occur more than once, in first-seen order.
func Duplicates(records []Record) []string {
	counts := make(map[string]int, len(records))
	var dups []string
	for _, r := range records {
		counts[r.Name]++
		if counts[r.Name] == 2 {
			dups = append(dups, r.Name)
		}
	}
	return dups
}
