package config

import (
	"strings"
	"testing"
	"time"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(t *testing.T, issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	t.Helper()
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

func validIngest() Ingest {
	return Ingest{
		User:         "root",
		Password:     "root",
		Host:         "localhost",
		Port:         "5432",
		DB:           "ny_taxi",
		TableName:    "yellow_taxi_trips",
		URL:          "https://example.com/yellow_tripdata_2021-01.csv.gz",
		FolderPolicy: FolderPolicyProceed,
	}.WithDefaults()
}

/*
TestValidateIngest_ValidMinimal verifies that a complete configuration with the
proceed policy yields no issues at all.
*/
func TestValidateIngest_ValidMinimal(t *testing.T) {
	t.Parallel()
	if issues := ValidateIngest(validIngest()); len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

/*
TestValidateIngest_MissingRequired verifies that each of the seven required
settings produces an error when empty.
*/
func TestValidateIngest_MissingRequired(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"user", "password", "host", "port", "db", "table_name", "url"} {
		path := path
		t.Run(path, func(t *testing.T) {
			t.Parallel()
			c := validIngest()
			switch path {
			case "user":
				c.User = ""
			case "password":
				c.Password = ""
			case "host":
				c.Host = ""
			case "port":
				c.Port = ""
			case "db":
				c.DB = ""
			case "table_name":
				c.TableName = " "
			case "url":
				c.URL = ""
			}
			issues := ValidateIngest(c)
			if !hasIssue(t, issues, SeverityError, path, "must not be empty") {
				t.Fatalf("expected error for %s; got %+v", path, issues)
			}
			if Err(issues) == nil {
				t.Fatalf("Err() = nil, want error")
			}
		})
	}
}

func TestValidateIngest_SQLiteSkipsCredentials(t *testing.T) {
	t.Parallel()
	c := Ingest{Kind: "sqlite3", DB: "/tmp/x.db", TableName: "t", URL: "file:///tmp/in.csv", FolderPolicy: FolderPolicyProceed}.WithDefaults()
	if issues := ValidateIngest(c); len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestValidateIngest_BadValues(t *testing.T) {
	t.Parallel()

	c := validIngest()
	c.Port = "99999"
	c.Kind = "oracle"
	c.URL = "ftp://example.com/data.parquet"
	c.FolderPolicy = "sometimes"
	c.ChunkSize = -1
	c.InsecureTLS = true

	issues := ValidateIngest(c)
	checks := []struct {
		sev  IssueSeverity
		path string
		msg  string
	}{
		{SeverityError, "port", "not a valid TCP port"},
		{SeverityError, "kind", "unknown storage kind"},
		{SeverityError, "url", "unsupported scheme"},
		{SeverityWarning, "url", "does not end in .csv"},
		{SeverityError, "folder_policy", "unknown folder policy"},
		{SeverityError, "chunk_size", "must be > 0"},
		{SeverityWarning, "insecure_tls", "disabled"},
	}
	for _, c := range checks {
		if !hasIssue(t, issues, c.sev, c.path, c.msg) {
			t.Errorf("missing %s issue at %s (%q); got %+v", c.sev, c.path, c.msg, issues)
		}
	}
}

func TestValidateIngest_LegacyPolicyWarns(t *testing.T) {
	t.Parallel()
	c := validIngest()
	c.FolderPolicy = FolderPolicyLegacy
	issues := ValidateIngest(c)
	if !hasIssue(t, issues, SeverityWarning, "folder_policy", "legacy") {
		t.Fatalf("expected legacy warning; got %+v", issues)
	}
	if err := Err(issues); err != nil {
		t.Fatalf("Err() = %v, want nil for warnings only", err)
	}
}

func TestValidateRevenue(t *testing.T) {
	t.Parallel()
	issues := ValidateRevenue(Revenue{InputGreen: "g"})
	for _, p := range []string{"input_yellow", "output"} {
		if !hasIssue(t, issues, SeverityError, p, "must not be empty") {
			t.Errorf("expected error at %s; got %+v", p, issues)
		}
	}
	if hasIssue(t, issues, SeverityError, "input_green", "") {
		t.Errorf("unexpected issue for input_green")
	}
}

func TestValidateStreaks(t *testing.T) {
	t.Parallel()

	if issues := ValidateStreaks(Streaks{}.WithDefaults()); len(issues) != 0 {
		t.Fatalf("defaults should validate cleanly; got %+v", issues)
	}

	c := Streaks{
		Brokers:            []string{""},
		Topic:              " ",
		DSN:                "::not a url",
		Gap:                time.Second,
		CheckpointInterval: time.Minute,
	}.WithDefaults()
	issues := ValidateStreaks(c)
	if !hasIssue(t, issues, SeverityError, "brokers[0]", "must not be empty") {
		t.Errorf("expected broker error; got %+v", issues)
	}
	if !hasIssue(t, issues, SeverityError, "topic", "must not be empty") {
		t.Errorf("expected topic error; got %+v", issues)
	}
	if !hasIssue(t, issues, SeverityError, "dsn", "") {
		t.Errorf("expected dsn error; got %+v", issues)
	}
	if !hasIssue(t, issues, SeverityWarning, "checkpoint_interval", "exceeds") {
		t.Errorf("expected checkpoint warning; got %+v", issues)
	}
}
