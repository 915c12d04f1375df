package streaks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    Event
		wantErr string
	}{
		{
			name: "producer_record",
			in: `{"lpep_pickup_datetime":"2019-10-01 00:26:02","lpep_dropoff_datetime":"2019-10-01 00:39:58",` +
				`"PULocationID":112,"DOLocationID":196,"passenger_count":1.0,"trip_distance":5.88,"tip_amount":0.0}`,
			want: Event{
				Pickup:         time.Date(2019, 10, 1, 0, 26, 2, 0, time.UTC),
				Dropoff:        time.Date(2019, 10, 1, 0, 39, 58, 0, time.UTC),
				PULocationID:   112,
				DOLocationID:   196,
				PassengerCount: ptr(1.0),
				TripDistance:   ptr(5.88),
				TipAmount:      ptr(0.0),
			},
		},
		{
			name: "float_ids_and_nulls",
			in:   `{"lpep_dropoff_datetime":"2019-10-01T00:39:58Z","PULocationID":7.0,"DOLocationID":8,"passenger_count":null}`,
			want: Event{
				Dropoff:      time.Date(2019, 10, 1, 0, 39, 58, 0, time.UTC),
				PULocationID: 7,
				DOLocationID: 8,
			},
		},
		{name: "not_json", in: `trip`, wantErr: "decode event"},
		{name: "missing_dropoff", in: `{"PULocationID":1,"DOLocationID":2}`, wantErr: "missing lpep_dropoff_datetime"},
		{name: "bad_dropoff", in: `{"lpep_dropoff_datetime":"soon","PULocationID":1,"DOLocationID":2}`, wantErr: "lpep_dropoff_datetime"},
		{name: "missing_pu", in: `{"lpep_dropoff_datetime":"2019-10-01 00:39:58","DOLocationID":2}`, wantErr: "missing PULocationID"},
		{name: "fractional_do", in: `{"lpep_dropoff_datetime":"2019-10-01 00:39:58","PULocationID":1,"DOLocationID":2.5}`, wantErr: "not an integer"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := DecodeEvent([]byte(tc.in))
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, Key{PU: tc.want.PULocationID, DO: tc.want.DOLocationID}, got.Key())
		})
	}
}

func ptr[T any](v T) *T { return &v }
