package ddl

import (
	"testing"

	"taxipipe/internal/schema"
)

func TestBuildReplaceTableSQL(t *testing.T) {
	t.Parallel()

	tbl := schema.Table{Name: "yellow_taxi_trips", Columns: []schema.Column{
		{Name: "VendorID", Type: schema.TypeInteger},
		{Name: "tpep_pickup_datetime", Type: schema.TypeTimestamp},
		{Name: "trip_distance", Type: schema.TypeReal},
		{Name: "store_and_fwd_flag", Type: schema.TypeText},
	}}

	stmts, err := BuildReplaceTableSQL(tbl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}
	if want := `DROP TABLE IF EXISTS "yellow_taxi_trips";`; stmts[0] != want {
		t.Errorf("drop=%q, want %q", stmts[0], want)
	}
	want := "CREATE TABLE \"yellow_taxi_trips\" (\n" +
		"  \"VendorID\" BIGINT,\n" +
		"  \"tpep_pickup_datetime\" TIMESTAMP,\n" +
		"  \"trip_distance\" DOUBLE PRECISION,\n" +
		"  \"store_and_fwd_flag\" TEXT\n);"
	if stmts[1] != want {
		t.Errorf("create=\n%s\nwant\n%s", stmts[1], want)
	}
}

func TestBuildReplaceTableSQL_SchemaQualified(t *testing.T) {
	t.Parallel()

	stmts, err := BuildReplaceTableSQL(schema.Table{
		Name:    "public.zones",
		Columns: []schema.Column{{Name: "LocationID", Type: schema.TypeInteger}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `DROP TABLE IF EXISTS "public"."zones";`; stmts[0] != want {
		t.Errorf("drop=%q, want %q", stmts[0], want)
	}
}
