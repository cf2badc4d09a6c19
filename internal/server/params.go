package server

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/agentscape/pkg/errors"
	"github.com/matzehuels/agentscape/pkg/pipeline"
)

// options overlays query parameters on the configured defaults.
func (s *Server) options(q url.Values) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	opts.Formats = nil
	opts.Logger = s.logger

	setString(q, "x", &opts.XAxis)
	setString(q, "y", &opts.YAxis)
	setString(q, "category", &opts.Category)
	setString(q, "q", &opts.Query)
	setString(q, "theme", &opts.Theme)

	floats := []struct {
		name string
		dst  *float64
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"margin", &opts.Margin},
		{"zoom", &opts.Zoom},
		{"panx", &opts.PanX},
		{"pany", &opts.PanY},
		{"radius", &opts.Radius},
	}
	for _, f := range floats {
		if err := setFloat(q, f.name, f.dst); err != nil {
			return opts, err
		}
	}
	if q.Has("jitter") {
		var j float64
		if err := setFloat(q, "jitter", &j); err != nil {
			return opts, err
		}
		opts.JitterAmount = &j
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"popups", &opts.Popups},
		{"details", &opts.Details},
		{"labels", &opts.Labels},
		{"legend", &opts.Legend},
		{"logos", &opts.Logos},
		{"interactive", &opts.Interactive},
		{"refresh", &opts.Refresh},
	}
	for _, b := range bools {
		if err := setBool(q, b.name, b.dst); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func setString(q url.Values, name string, dst *string) {
	if q.Has(name) {
		*dst = strings.TrimSpace(q.Get(name))
	}
}

func setFloat(q url.Values, name string, dst *float64) error {
	if !q.Has(name) {
		return nil
	}
	v, err := strconv.ParseFloat(q.Get(name), 64)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "%s: not a number: %q", name, q.Get(name))
	}
	*dst = v
	return nil
}

func setBool(q url.Values, name string, dst *bool) error {
	if !q.Has(name) {
		return nil
	}
	raw := q.Get(name)
	if raw == "" {
		*dst = true
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "%s: not a boolean: %q", name, raw)
	}
	*dst = v
	return nil
}

// requireFloat parses a mandatory finite number.
func requireFloat(q url.Values, name string) (float64, error) {
	if !q.Has(name) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s is required", name)
	}
	var v float64
	if err := setFloat(q, name, &v); err != nil {
		return 0, err
	}
	return v, nil
}
