package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestCommand_PrintsSchemaAndDDL(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "trips.csv")
	csv := "VendorID,lpep_pickup_datetime,lpep_dropoff_datetime,store_and_fwd_flag,fare_amount\n" +
		"2,2019-01-01 00:10:16,2019-01-01 00:16:32,N,6.5\n" +
		"1,2019-01-01 00:27:11,2019-01-01 00:31:38,,4\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	cmd := newCommand(&out)
	cmd.SetArgs([]string{"--file=" + path, "--table=green_taxi_trips", "--kind=sqlite3", "--pretty=false"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var got report
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}
	if got.Rows != 2 || got.Kind != "sqlite" {
		t.Fatalf("rows/kind = %d/%s", got.Rows, got.Kind)
	}
	want := []columnOut{
		{Name: "VendorID", Type: "integer", NonEmpty: 2},
		{Name: "lpep_pickup_datetime", Type: "timestamp", NonEmpty: 2},
		{Name: "lpep_dropoff_datetime", Type: "timestamp", NonEmpty: 2},
		{Name: "store_and_fwd_flag", Type: "text", NonEmpty: 1},
		{Name: "fare_amount", Type: "real", NonEmpty: 2},
	}
	if len(got.Columns) != len(want) {
		t.Fatalf("columns = %+v", got.Columns)
	}
	for i := range want {
		if got.Columns[i] != want[i] {
			t.Fatalf("column %d = %+v, want %+v", i, got.Columns[i], want[i])
		}
	}
	ddl := strings.Join(got.DDL, "\n")
	if !strings.Contains(ddl, `CREATE TABLE "green_taxi_trips"`) || !strings.Contains(ddl, `"fare_amount" REAL`) {
		t.Fatalf("ddl = %s", ddl)
	}
}

func TestCommand_Errors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	noTS := filepath.Join(dir, "plain.csv")
	if err := os.WriteFile(noTS, []byte("a,b\n2019-01-01 00:00:00,2019-01-01 00:10:00\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing_flag", args: nil, want: "file"},
		{name: "missing_file", args: []string{"--file=" + filepath.Join(dir, "nope.csv")}, want: "nope.csv"},
		{name: "no_timestamp_columns", args: []string{"--file=" + noTS}, want: "pickup"},
		{name: "unknown_kind", args: []string{"--file=" + noTS, "--pickup_column=a", "--dropoff_column=b", "--kind=oracle"}, want: "oracle"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cmd := newCommand(&bytes.Buffer{})
			cmd.SetArgs(tc.args)
			err := cmd.ExecuteContext(context.Background())
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %v, want it to mention %q", err, tc.want)
			}
		})
	}
}
