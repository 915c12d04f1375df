package revenue

import (
	"context"
	"database/sql"
	"fmt"
)

// MonthlyRevenue is one output row. RevenueMonth is the first instant of the
// pickup month in UTC, stored as TIMESTAMP_MICROS. The avg_montly_* names are
// the ones downstream reports already select.
type MonthlyRevenue struct {
	RevenueZone                        *int64   `parquet:"name=revenue_zone, type=INT64, repetitiontype=OPTIONAL"`
	RevenueMonth                       *int64   `parquet:"name=revenue_month, type=INT64, convertedtype=TIMESTAMP_MICROS, repetitiontype=OPTIONAL"`
	ServiceType                        *string  `parquet:"name=service_type, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	RevenueMonthlyFare                 *float64 `parquet:"name=revenue_monthly_fare, type=DOUBLE, repetitiontype=OPTIONAL"`
	RevenueMonthlyExtra                *float64 `parquet:"name=revenue_monthly_extra, type=DOUBLE, repetitiontype=OPTIONAL"`
	RevenueMonthlyMtaTax               *float64 `parquet:"name=revenue_monthly_mta_tax, type=DOUBLE, repetitiontype=OPTIONAL"`
	RevenueMonthlyTipAmount            *float64 `parquet:"name=revenue_monthly_tip_amount, type=DOUBLE, repetitiontype=OPTIONAL"`
	RevenueMonthlyTollsAmount          *float64 `parquet:"name=revenue_monthly_tolls_amount, type=DOUBLE, repetitiontype=OPTIONAL"`
	RevenueMonthlyImprovementSurcharge *float64 `parquet:"name=revenue_monthly_improvement_surcharge, type=DOUBLE, repetitiontype=OPTIONAL"`
	RevenueMonthlyTotalAmount          *float64 `parquet:"name=revenue_monthly_total_amount, type=DOUBLE, repetitiontype=OPTIONAL"`
	RevenueMonthlyCongestionSurcharge  *float64 `parquet:"name=revenue_monthly_congestion_surcharge, type=DOUBLE, repetitiontype=OPTIONAL"`
	AvgMonthlyPassengerCount           *float64 `parquet:"name=avg_montly_passenger_count, type=DOUBLE, repetitiontype=OPTIONAL"`
	AvgMonthlyTripDistance             *float64 `parquet:"name=avg_montly_trip_distance, type=DOUBLE, repetitiontype=OPTIONAL"`
}

// monthlyRevenueSQL groups trips_data by pickup zone, UTC pickup month and
// service. pickup_datetime holds microseconds since the epoch.
const monthlyRevenueSQL = `
SELECT
    PULocationID AS revenue_zone,
    CAST(strftime('%s', pickup_datetime / 1000000, 'unixepoch', 'start of month') AS INTEGER) * 1000000 AS revenue_month,
    service_type,

    SUM(fare_amount) AS revenue_monthly_fare,
    SUM(extra) AS revenue_monthly_extra,
    SUM(mta_tax) AS revenue_monthly_mta_tax,
    SUM(tip_amount) AS revenue_monthly_tip_amount,
    SUM(tolls_amount) AS revenue_monthly_tolls_amount,
    SUM(improvement_surcharge) AS revenue_monthly_improvement_surcharge,
    SUM(total_amount) AS revenue_monthly_total_amount,
    SUM(congestion_surcharge) AS revenue_monthly_congestion_surcharge,

    AVG(passenger_count) AS avg_montly_passenger_count,
    AVG(trip_distance) AS avg_montly_trip_distance
FROM trips_data
GROUP BY 1, 2, 3
ORDER BY 1, 2, 3
`

// aggregate runs monthlyRevenueSQL and returns its rows in output order.
func aggregate(ctx context.Context, db *sql.DB) ([]MonthlyRevenue, error) {
	rows, err := db.QueryContext(ctx, monthlyRevenueSQL)
	if err != nil {
		return nil, fmt.Errorf("query monthly revenue: %w", err)
	}
	defer rows.Close()

	var out []MonthlyRevenue
	for rows.Next() {
		var (
			zone, month sql.NullInt64
			service     sql.NullString
			sums        [8]sql.NullFloat64
			avgs        [2]sql.NullFloat64
		)
		dest := []any{&zone, &month, &service}
		for i := range sums {
			dest = append(dest, &sums[i])
		}
		for i := range avgs {
			dest = append(dest, &avgs[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan monthly revenue: %w", err)
		}
		out = append(out, MonthlyRevenue{
			RevenueZone:                        nullInt(zone),
			RevenueMonth:                       nullInt(month),
			ServiceType:                        nullString(service),
			RevenueMonthlyFare:                 nullFloat(sums[0]),
			RevenueMonthlyExtra:                nullFloat(sums[1]),
			RevenueMonthlyMtaTax:               nullFloat(sums[2]),
			RevenueMonthlyTipAmount:            nullFloat(sums[3]),
			RevenueMonthlyTollsAmount:          nullFloat(sums[4]),
			RevenueMonthlyImprovementSurcharge: nullFloat(sums[5]),
			RevenueMonthlyTotalAmount:          nullFloat(sums[6]),
			RevenueMonthlyCongestionSurcharge:  nullFloat(sums[7]),
			AvgMonthlyPassengerCount:           nullFloat(avgs[0]),
			AvgMonthlyTripDistance:             nullFloat(avgs[1]),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly revenue: %w", err)
	}
	return out, nil
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
