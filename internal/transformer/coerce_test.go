package transformer

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"taxipipe/internal/schema"
)

func tripTable() schema.Table {
	return schema.Table{
		Name: "green_taxi_trips",
		Columns: []schema.Column{
			{Name: "VendorID", Type: schema.TypeInteger},
			{Name: "lpep_pickup_datetime", Type: schema.TypeTimestamp},
			{Name: "store_and_fwd_flag", Type: schema.TypeText},
			{Name: "trip_distance", Type: schema.TypeReal},
			{Name: "congestion", Type: schema.TypeBoolean},
		},
	}
}

/*
TestPlanApply covers each column type, NULL passthrough and the failure
modes of a compiled plan.
*/
func TestPlanApply(t *testing.T) {
	t.Parallel()

	p, err := Compile(tripTable())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if p.Width() != 5 {
		t.Fatalf("Width = %d", p.Width())
	}

	cases := []struct {
		name    string
		in      []any
		want    []any
		wantCol string
	}{
		{
			name: "all_types",
			in:   []any{"2", "2019-01-01 00:10:16", "N", "1.37", "False"},
			want: []any{int64(2), time.Date(2019, 1, 1, 0, 10, 16, 0, time.UTC), "N", 1.37, false},
		},
		{
			name: "nulls_untouched",
			in:   []any{nil, nil, nil, nil, nil},
			want: []any{nil, nil, nil, nil, nil},
		},
		{name: "bad_integer", in: []any{"2.5", nil, nil, nil, nil}, wantCol: "VendorID"},
		{name: "bad_timestamp", in: []any{nil, "not a date", nil, nil, nil}, wantCol: "lpep_pickup_datetime"},
		{name: "bad_real", in: []any{nil, nil, nil, "x", nil}, wantCol: "trip_distance"},
		{name: "bad_bool", in: []any{nil, nil, nil, nil, "yes"}, wantCol: "congestion"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := GetRow(len(tc.in))
			defer r.Free()
			copy(r.V, tc.in)

			err := p.Apply(r, 7)
			if tc.wantCol != "" {
				var ce *CellError
				if !errors.As(err, &ce) || ce.Column != tc.wantCol || ce.Line != 7 {
					t.Fatalf("Apply error = %v, want CellError on %s line 7", err, tc.wantCol)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply error: %v", err)
			}
			if !reflect.DeepEqual(r.V, tc.want) {
				t.Fatalf("row = %#v\nwant  %#v", r.V, tc.want)
			}
		})
	}
}

func TestPlanApply_WidthMismatch(t *testing.T) {
	t.Parallel()

	p, _ := Compile(tripTable())
	r := GetRow(2)
	defer r.Free()
	if err := p.Apply(r, 3); err == nil {
		t.Fatalf("want width error")
	}
}

func TestCompile_InvalidTable(t *testing.T) {
	t.Parallel()

	if _, err := Compile(schema.Table{Name: "t"}); err == nil {
		t.Fatalf("want error for table without columns")
	}
}

func TestParseHelpers(t *testing.T) {
	t.Parallel()

	if v, ok := ParseInt("-42"); !ok || v != -42 {
		t.Errorf("ParseInt(-42) = %d,%v", v, ok)
	}
	if _, ok := ParseInt("1e3"); ok {
		t.Errorf("ParseInt(1e3) accepted")
	}
	if v, ok := ParseReal("1e3"); !ok || v != 1000 {
		t.Errorf("ParseReal(1e3) = %v,%v", v, ok)
	}
	if v, ok := ParseReal("NaN"); !ok || !math.IsNaN(v) {
		t.Errorf("ParseReal(NaN) = %v,%v", v, ok)
	}
	for _, s := range []string{"true", "True", "TRUE"} {
		if v, ok := ParseBool(s); !ok || !v {
			t.Errorf("ParseBool(%q) = %v,%v", s, v, ok)
		}
	}
	for _, s := range []string{"1", "t", "tRuE", "yes"} {
		if _, ok := ParseBool(s); ok {
			t.Errorf("ParseBool(%q) accepted", s)
		}
	}

	ts := []struct{ in string }{
		{"2019-01-01 00:10:16"},
		{"2019-01-01T00:10:16Z"},
		{"01/01/2019 00:10:16"},
	}
	want := time.Date(2019, 1, 1, 0, 10, 16, 0, time.UTC)
	for _, c := range ts {
		got, err := ParseTimestamp(c.in)
		if err != nil || !got.Equal(want) || got.Location() != time.UTC {
			t.Errorf("ParseTimestamp(%q) = %v, %v", c.in, got, err)
		}
	}
	if _, err := ParseTimestamp("yesterday-ish"); err == nil {
		t.Errorf("ParseTimestamp accepted garbage")
	}
}
