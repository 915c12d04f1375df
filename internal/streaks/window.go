package streaks

import (
	"sort"
	"time"
)

// Key identifies a session: trips between the same pickup and dropoff zone.
type Key struct {
	PU int64
	DO int64
}

// Session is a run of events of one key where consecutive event times are
// less than the gap apart. End is the last event time plus the gap.
type Session struct {
	Key   Key
	Start time.Time
	End   time.Time
	Count int64
}

// Windower assigns events to per-key session windows and releases the ones
// the watermark has passed. The watermark is the largest event time seen
// minus the allowed out-of-orderness.
//
// A Windower is not safe for concurrent use.
type Windower struct {
	gap   time.Duration
	delay time.Duration

	maxTS time.Time
	seen  bool
	open  map[Key][]Session
}

// NewWindower returns an empty Windower.
func NewWindower(gap, outOfOrderness time.Duration) *Windower {
	return &Windower{
		gap:   gap,
		delay: outOfOrderness,
		open:  make(map[Key][]Session),
	}
}

// Watermark returns the current watermark, or the zero time before the
// first event.
func (w *Windower) Watermark() time.Time {
	if !w.seen {
		return time.Time{}
	}
	return w.maxTS.Add(-w.delay)
}

// Add assigns an event of key at ts, merging it with the open sessions it
// touches or overlaps. It returns false, and drops the event, when the merged
// session already ended at or before the watermark. Sessions the watermark
// has passed are complete and take no further events.
func (w *Windower) Add(key Key, ts time.Time) bool {
	wm := w.Watermark()
	passed := func(end time.Time) bool { return w.seen && !end.After(wm) }

	merged := Session{Key: key, Start: ts, End: ts.Add(w.gap), Count: 1}
	sessions := w.open[key]
	keep := make([]Session, 0, len(sessions)+1)
	for _, s := range sessions {
		if passed(s.End) || s.Start.After(merged.End) || s.End.Before(merged.Start) {
			keep = append(keep, s)
			continue
		}
		if s.Start.Before(merged.Start) {
			merged.Start = s.Start
		}
		if s.End.After(merged.End) {
			merged.End = s.End
		}
		merged.Count += s.Count
	}
	if passed(merged.End) {
		return false
	}

	if !w.seen || ts.After(w.maxTS) {
		w.maxTS = ts
		w.seen = true
	}
	keep = append(keep, merged)
	sort.Slice(keep, func(i, j int) bool { return keep[i].Start.Before(keep[j].Start) })
	w.open[key] = keep
	return true
}

// Closed removes and returns every session whose end is at or before the
// watermark.
func (w *Windower) Closed() []Session {
	if !w.seen {
		return nil
	}
	wm := w.Watermark()
	return w.take(func(s Session) bool { return !s.End.After(wm) })
}

// Flush removes and returns every open session regardless of the watermark.
func (w *Windower) Flush() []Session {
	return w.take(func(Session) bool { return true })
}

// Restore puts sessions returned by Closed or Flush back into the open set,
// so a failed write can be retried.
func (w *Windower) Restore(sessions []Session) {
	touched := make(map[Key]bool)
	for _, s := range sessions {
		w.open[s.Key] = append(w.open[s.Key], s)
		touched[s.Key] = true
	}
	for k := range touched {
		ss := w.open[k]
		sort.Slice(ss, func(i, j int) bool { return ss[i].Start.Before(ss[j].Start) })
	}
}

// Open reports the number of sessions still buffered.
func (w *Windower) Open() int {
	n := 0
	for _, ss := range w.open {
		n += len(ss)
	}
	return n
}

func (w *Windower) take(done func(Session) bool) []Session {
	var out []Session
	for k, sessions := range w.open {
		keep := sessions[:0]
		for _, s := range sessions {
			if done(s) {
				out = append(out, s)
			} else {
				keep = append(keep, s)
			}
		}
		if len(keep) == 0 {
			delete(w.open, k)
		} else {
			w.open[k] = keep
		}
	}
	sortSessions(out)
	return out
}

func sortSessions(ss []Session) {
	sort.Slice(ss, func(i, j int) bool {
		a, b := ss[i], ss[j]
		if !a.End.Equal(b.End) {
			return a.End.Before(b.End)
		}
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if a.Key.PU != b.Key.PU {
			return a.Key.PU < b.Key.PU
		}
		return a.Key.DO < b.Key.DO
	})
}
