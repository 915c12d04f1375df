// Package config provides configuration models and helpers for the taxipipe
// binaries.
//
// This file adds a lightweight linter/validator for run configurations. It
// performs static checks over a filled config value and returns a list of
// issues (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding.
//
// Path is the flag or setting name (e.g. "table_name", "chunk_size").
// Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Err joins the error-severity issues into one error, or returns nil.
func Err(issues []Issue) error {
	var errs []error
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			errs = append(errs, iss)
		}
	}
	return errors.Join(errs...)
}

// ValidateIngest lints an Ingest configuration after WithDefaults.
func ValidateIngest(c Ingest) []Issue {
	var issues []Issue

	required := []struct{ path, val string }{
		{"user", c.User},
		{"password", c.Password},
		{"host", c.Host},
		{"port", c.Port},
		{"db", c.DB},
		{"table_name", c.TableName},
		{"url", c.URL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.val) != "" {
			continue
		}
		// SQLite has no server; the credentials are unused.
		if c.Kind == KindSQLite && r.path != "db" && r.path != "table_name" && r.path != "url" {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     r.path,
			Message:  r.path + " must not be empty",
		})
	}

	if c.Port != "" && c.Kind != KindSQLite {
		if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "port",
				Message:  fmt.Sprintf("port %q is not a valid TCP port", c.Port),
			})
		}
	}

	switch c.Kind {
	case KindPostgres, KindMySQL, KindMSSQL, KindSQLite:
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "kind",
			Message:  fmt.Sprintf("unknown storage kind %q", c.Kind),
		})
	}

	if c.URL != "" {
		u, err := url.Parse(c.URL)
		switch {
		case err != nil:
			issues = append(issues, Issue{Severity: SeverityError, Path: "url", Message: err.Error()})
		case u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "file":
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "url",
				Message:  fmt.Sprintf("unsupported scheme %q; want http, https or file", u.Scheme),
			})
		}
		if !strings.HasSuffix(c.URL, ".csv") && !strings.HasSuffix(c.URL, ".csv.gz") {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "url",
				Message:  "url does not end in .csv or .csv.gz; the file is read as plain CSV",
			})
		}
	}

	if c.ChunkSize <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "chunk_size",
			Message:  "chunk_size must be > 0",
		})
	}

	switch c.FolderPolicy {
	case FolderPolicyProceed:
	case FolderPolicyLegacy:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "folder_policy",
			Message:  "legacy policy: a missing download folder is created and the run ends without ingesting",
		})
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "folder_policy",
			Message:  fmt.Sprintf("unknown folder policy %q; want legacy or proceed", c.FolderPolicy),
		})
	}

	if c.InsecureTLS {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "insecure_tls",
			Message:  "TLS certificate verification is disabled for the download",
		})
	}

	return issues
}

// ValidateRevenue lints a Revenue configuration.
func ValidateRevenue(c Revenue) []Issue {
	var issues []Issue
	for _, r := range []struct{ path, val string }{
		{"input_green", c.InputGreen},
		{"input_yellow", c.InputYellow},
		{"output", c.Output},
	} {
		if strings.TrimSpace(r.val) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     r.path,
				Message:  r.path + " must not be empty",
			})
		}
	}
	return issues
}

// ValidateStreaks lints a Streaks configuration after WithDefaults.
func ValidateStreaks(c Streaks) []Issue {
	var issues []Issue

	for i, b := range c.Brokers {
		if strings.TrimSpace(b) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("brokers[%d]", i),
				Message:  "broker address must not be empty",
			})
		}
	}
	if strings.TrimSpace(c.Topic) == "" {
		issues = append(issues, Issue{Severity: SeverityError, Path: "topic", Message: "topic must not be empty"})
	}
	if strings.TrimSpace(c.Table) == "" {
		issues = append(issues, Issue{Severity: SeverityError, Path: "table", Message: "table must not be empty"})
	}
	if _, _, err := ParseDSN(c.DSN); err != nil {
		issues = append(issues, Issue{Severity: SeverityError, Path: "dsn", Message: err.Error()})
	}
	if c.CheckpointInterval > c.Gap {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "checkpoint_interval",
			Message:  "checkpoint interval exceeds the session gap; closed sessions are written late",
		})
	}
	return issues
}
