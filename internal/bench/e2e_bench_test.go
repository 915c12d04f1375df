package bench

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"taxipipe/internal/parser/csv"
	"taxipipe/internal/schema"
	"taxipipe/internal/storage"
	"taxipipe/internal/transformer"
)

const benchRows = 20000

// tripCSV renders n green-trip-like rows.
func tripCSV(n int) []byte {
	var buf bytes.Buffer
	buf.WriteString("VendorID,lpep_pickup_datetime,lpep_dropoff_datetime,store_and_fwd_flag,PULocationID,DOLocationID,passenger_count,trip_distance,fare_amount\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&buf, "%d,2019-01-01 00:%02d:%02d,2019-01-01 01:%02d:%02d,N,%d,%d,%d,%.2f,%.1f\n",
			1+i%2, i%60, i%60, i%60, i%60, 1+i%265, 1+(i*7)%265, i%6, float64(i%1000)/10, float64(i%500)/2)
	}
	return buf.Bytes()
}

var tripSchema = schema.Table{
	Name: "green_taxi_trips",
	Columns: []schema.Column{
		{Name: "VendorID", Type: schema.TypeInteger},
		{Name: "lpep_pickup_datetime", Type: schema.TypeTimestamp},
		{Name: "lpep_dropoff_datetime", Type: schema.TypeTimestamp},
		{Name: "store_and_fwd_flag", Type: schema.TypeText},
		{Name: "PULocationID", Type: schema.TypeInteger},
		{Name: "DOLocationID", Type: schema.TypeInteger},
		{Name: "passenger_count", Type: schema.TypeInteger},
		{Name: "trip_distance", Type: schema.TypeReal},
		{Name: "fare_amount", Type: schema.TypeReal},
	},
}

type coerced struct {
	r    *csv.Reader
	plan *transformer.Plan
}

func (s *coerced) Next(ctx context.Context) (storage.Batch, error) {
	b, err := s.r.Next(ctx)
	if err != nil {
		return nil, err
	}
	for i, row := range b.Rows {
		if err := s.plan.Apply(row, b.FirstLine+i); err != nil {
			b.Free()
			return nil, err
		}
	}
	return b, nil
}

// BenchmarkEndToEnd exercises the hot path of an ingest without a database:
// CSV decode, cell coercion (timestamps included) and batching into a COPY
// function that only counts rows.
//
// Run with:
//
//	go test -run=^$ -bench ^BenchmarkEndToEnd$ -cpuprofile cpu.out -memprofile mem.out -count=1
func BenchmarkEndToEnd(b *testing.B) {
	ctx := context.Background()
	data := tripCSV(benchRows)
	plan, err := transformer.Compile(tripSchema)
	if err != nil {
		b.Fatal(err)
	}
	copyFn := func(_ context.Context, _ []string, rows [][]any) (int64, error) {
		return int64(len(rows)), nil
	}

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r, err := csv.NewReader(io.NopCloser(bytes.NewReader(data)), 10000)
		if err != nil {
			b.Fatal(err)
		}
		n, err := storage.LoadBatches(ctx, tripSchema.ColumnNames(), &coerced{r: r, plan: plan}, copyFn, nil)
		if err != nil && !errors.Is(err, io.EOF) {
			b.Fatal(err)
		}
		if n != benchRows {
			b.Fatalf("loaded %d rows, want %d", n, benchRows)
		}
	}
	b.ReportMetric(float64(benchRows*b.N)/b.Elapsed().Seconds(), "rows/s")
}
