package streaks

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/araddon/dateparse"
	"github.com/goccy/go-json"
)

// Event is one green trip as published to the trips topic.
type Event struct {
	Pickup         time.Time
	Dropoff        time.Time
	PULocationID   int64
	DOLocationID   int64
	PassengerCount *float64
	TripDistance   *float64
	TipAmount      *float64
}

// Key returns the session key of e.
func (e Event) Key() Key {
	return Key{PU: e.PULocationID, DO: e.DOLocationID}
}

type wireEvent struct {
	Pickup         string   `json:"lpep_pickup_datetime"`
	Dropoff        string   `json:"lpep_dropoff_datetime"`
	PULocationID   *float64 `json:"PULocationID"`
	DOLocationID   *float64 `json:"DOLocationID"`
	PassengerCount *float64 `json:"passenger_count"`
	TripDistance   *float64 `json:"trip_distance"`
	TipAmount      *float64 `json:"tip_amount"`
}

// DecodeEvent parses a JSON trip record. The dropoff time (event time) and
// both location ids are required; timestamps without a zone are UTC.
func DecodeEvent(b []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(b, &w); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}

	var ev Event
	if w.Dropoff == "" {
		return Event{}, errors.New("decode event: missing lpep_dropoff_datetime")
	}
	t, err := dateparse.ParseIn(w.Dropoff, time.UTC)
	if err != nil {
		return Event{}, fmt.Errorf("decode event: lpep_dropoff_datetime %q: %w", w.Dropoff, err)
	}
	ev.Dropoff = t.UTC()
	if w.Pickup != "" {
		t, err := dateparse.ParseIn(w.Pickup, time.UTC)
		if err != nil {
			return Event{}, fmt.Errorf("decode event: lpep_pickup_datetime %q: %w", w.Pickup, err)
		}
		ev.Pickup = t.UTC()
	}

	if ev.PULocationID, err = locationID("PULocationID", w.PULocationID); err != nil {
		return Event{}, err
	}
	if ev.DOLocationID, err = locationID("DOLocationID", w.DOLocationID); err != nil {
		return Event{}, err
	}
	ev.PassengerCount = w.PassengerCount
	ev.TripDistance = w.TripDistance
	ev.TipAmount = w.TipAmount
	return ev, nil
}

// locationID accepts 74 and 74.0, which is how pandas serialises an integer
// column that once held a NaN.
func locationID(name string, v *float64) (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("decode event: missing %s", name)
	}
	if *v != math.Trunc(*v) || math.IsInf(*v, 0) {
		return 0, fmt.Errorf("decode event: %s %v is not an integer", name, *v)
	}
	return int64(*v), nil
}
