package revenue

import "taxipipe/internal/schema"

// Service types tagged onto each dataset before the union.
const (
	ServiceGreen  = "Green"
	ServiceYellow = "Yellow"
)

// GreenTrip is the subset of a green taxi Parquet row the aggregation reads.
// Timestamps are INT64 microseconds since the Unix epoch (UTC).
type GreenTrip struct {
	VendorID             *int64   `parquet:"name=VendorID, type=INT64, repetitiontype=OPTIONAL"`
	PickupDatetime       *int64   `parquet:"name=lpep_pickup_datetime, type=INT64, convertedtype=TIMESTAMP_MICROS, repetitiontype=OPTIONAL"`
	DropoffDatetime      *int64   `parquet:"name=lpep_dropoff_datetime, type=INT64, convertedtype=TIMESTAMP_MICROS, repetitiontype=OPTIONAL"`
	StoreAndFwdFlag      *string  `parquet:"name=store_and_fwd_flag, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	RatecodeID           *int64   `parquet:"name=RatecodeID, type=INT64, repetitiontype=OPTIONAL"`
	PULocationID         *int64   `parquet:"name=PULocationID, type=INT64, repetitiontype=OPTIONAL"`
	DOLocationID         *int64   `parquet:"name=DOLocationID, type=INT64, repetitiontype=OPTIONAL"`
	PassengerCount       *int64   `parquet:"name=passenger_count, type=INT64, repetitiontype=OPTIONAL"`
	TripDistance         *float64 `parquet:"name=trip_distance, type=DOUBLE, repetitiontype=OPTIONAL"`
	FareAmount           *float64 `parquet:"name=fare_amount, type=DOUBLE, repetitiontype=OPTIONAL"`
	Extra                *float64 `parquet:"name=extra, type=DOUBLE, repetitiontype=OPTIONAL"`
	MtaTax               *float64 `parquet:"name=mta_tax, type=DOUBLE, repetitiontype=OPTIONAL"`
	TipAmount            *float64 `parquet:"name=tip_amount, type=DOUBLE, repetitiontype=OPTIONAL"`
	TollsAmount          *float64 `parquet:"name=tolls_amount, type=DOUBLE, repetitiontype=OPTIONAL"`
	ImprovementSurcharge *float64 `parquet:"name=improvement_surcharge, type=DOUBLE, repetitiontype=OPTIONAL"`
	TotalAmount          *float64 `parquet:"name=total_amount, type=DOUBLE, repetitiontype=OPTIONAL"`
	PaymentType          *int64   `parquet:"name=payment_type, type=INT64, repetitiontype=OPTIONAL"`
	CongestionSurcharge  *float64 `parquet:"name=congestion_surcharge, type=DOUBLE, repetitiontype=OPTIONAL"`
}

// YellowTrip is GreenTrip with the tpep_ timestamp names.
type YellowTrip struct {
	VendorID             *int64   `parquet:"name=VendorID, type=INT64, repetitiontype=OPTIONAL"`
	PickupDatetime       *int64   `parquet:"name=tpep_pickup_datetime, type=INT64, convertedtype=TIMESTAMP_MICROS, repetitiontype=OPTIONAL"`
	DropoffDatetime      *int64   `parquet:"name=tpep_dropoff_datetime, type=INT64, convertedtype=TIMESTAMP_MICROS, repetitiontype=OPTIONAL"`
	StoreAndFwdFlag      *string  `parquet:"name=store_and_fwd_flag, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	RatecodeID           *int64   `parquet:"name=RatecodeID, type=INT64, repetitiontype=OPTIONAL"`
	PULocationID         *int64   `parquet:"name=PULocationID, type=INT64, repetitiontype=OPTIONAL"`
	DOLocationID         *int64   `parquet:"name=DOLocationID, type=INT64, repetitiontype=OPTIONAL"`
	PassengerCount       *int64   `parquet:"name=passenger_count, type=INT64, repetitiontype=OPTIONAL"`
	TripDistance         *float64 `parquet:"name=trip_distance, type=DOUBLE, repetitiontype=OPTIONAL"`
	FareAmount           *float64 `parquet:"name=fare_amount, type=DOUBLE, repetitiontype=OPTIONAL"`
	Extra                *float64 `parquet:"name=extra, type=DOUBLE, repetitiontype=OPTIONAL"`
	MtaTax               *float64 `parquet:"name=mta_tax, type=DOUBLE, repetitiontype=OPTIONAL"`
	TipAmount            *float64 `parquet:"name=tip_amount, type=DOUBLE, repetitiontype=OPTIONAL"`
	TollsAmount          *float64 `parquet:"name=tolls_amount, type=DOUBLE, repetitiontype=OPTIONAL"`
	ImprovementSurcharge *float64 `parquet:"name=improvement_surcharge, type=DOUBLE, repetitiontype=OPTIONAL"`
	TotalAmount          *float64 `parquet:"name=total_amount, type=DOUBLE, repetitiontype=OPTIONAL"`
	PaymentType          *int64   `parquet:"name=payment_type, type=INT64, repetitiontype=OPTIONAL"`
	CongestionSurcharge  *float64 `parquet:"name=congestion_surcharge, type=DOUBLE, repetitiontype=OPTIONAL"`
}

// tripsData is the unioned table the revenue SQL runs against: the common
// columns with pickup/dropoff renamed, plus service_type.
var tripsData = schema.Table{
	Name: "trips_data",
	Columns: []schema.Column{
		{Name: "VendorID", Type: schema.TypeInteger},
		{Name: "pickup_datetime", Type: schema.TypeInteger},
		{Name: "dropoff_datetime", Type: schema.TypeInteger},
		{Name: "store_and_fwd_flag", Type: schema.TypeText},
		{Name: "RatecodeID", Type: schema.TypeInteger},
		{Name: "PULocationID", Type: schema.TypeInteger},
		{Name: "DOLocationID", Type: schema.TypeInteger},
		{Name: "passenger_count", Type: schema.TypeInteger},
		{Name: "trip_distance", Type: schema.TypeReal},
		{Name: "fare_amount", Type: schema.TypeReal},
		{Name: "extra", Type: schema.TypeReal},
		{Name: "mta_tax", Type: schema.TypeReal},
		{Name: "tip_amount", Type: schema.TypeReal},
		{Name: "tolls_amount", Type: schema.TypeReal},
		{Name: "improvement_surcharge", Type: schema.TypeReal},
		{Name: "total_amount", Type: schema.TypeReal},
		{Name: "payment_type", Type: schema.TypeInteger},
		{Name: "congestion_surcharge", Type: schema.TypeReal},
		{Name: "service_type", Type: schema.TypeText},
	},
}

// record is implemented by the per-service Parquet structs.
type record interface {
	values(service string) []any
}

func (t GreenTrip) values(service string) []any {
	return []any{
		i64(t.VendorID), i64(t.PickupDatetime), i64(t.DropoffDatetime), str(t.StoreAndFwdFlag),
		i64(t.RatecodeID), i64(t.PULocationID), i64(t.DOLocationID), i64(t.PassengerCount),
		f64(t.TripDistance), f64(t.FareAmount), f64(t.Extra), f64(t.MtaTax), f64(t.TipAmount),
		f64(t.TollsAmount), f64(t.ImprovementSurcharge), f64(t.TotalAmount), i64(t.PaymentType),
		f64(t.CongestionSurcharge), service,
	}
}

func (t YellowTrip) values(service string) []any {
	return GreenTrip(t).values(service)
}

func i64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func f64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func str(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
