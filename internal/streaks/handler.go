package streaks

import (
	"context"
	"sync"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"taxipipe/internal/metrics"
)

// handler feeds consumed trips into the windower and writes closed sessions
// on checkpoint. ConsumeClaim runs once per claimed partition, so every
// field below mu is shared between goroutines.
type handler struct {
	// ctx is the run context. Once it is done, Cleanup flushes every open
	// session instead of only the closed ones.
	ctx    context.Context
	job    string
	logger *zap.SugaredLogger
	sink   writer

	mu       sync.Mutex
	w        *Windower
	sess     sarama.ConsumerGroupSession
	events   int64
	late     int64
	invalid  int64
	sessions int64
	// failed is set by the first failed sink write. From then on no offset
	// is committed, so a restart replays everything since the last good
	// checkpoint.
	failed bool
}

func newHandler(ctx context.Context, job string, logger *zap.SugaredLogger, w *Windower, sink writer) *handler {
	return &handler{ctx: ctx, job: job, logger: logger, w: w, sink: sink}
}

// Setup is run at the beginning of a new session, before ConsumeClaim.
func (h *handler) Setup(sess sarama.ConsumerGroupSession) error {
	h.mu.Lock()
	h.sess = sess
	h.mu.Unlock()
	h.logger.Infow("consumer session started", "member", sess.MemberID(), "claims", sess.Claims())
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines
// have exited. Offsets marked during the session are only committed after a
// checkpoint has written what they fed.
func (h *handler) Cleanup(sess sarama.ConsumerGroupSession) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(h.ctx), writeTimeout)
	defer cancel()
	err := h.checkpoint(ctx, h.sink, h.ctx.Err() != nil)

	h.mu.Lock()
	h.sess = nil
	h.mu.Unlock()
	return err
}

// ConsumeClaim drains one partition until the claim or the session ends.
func (h *handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			h.process(msg)
			sess.MarkMessage(msg, "")
		case <-sess.Context().Done():
			return nil
		}
	}
}

func (h *handler) process(msg *sarama.ConsumerMessage) {
	ev, err := DecodeEvent(msg.Value)
	if err != nil {
		h.logger.Warnw("skipping undecodable record",
			"partition", msg.Partition, "offset", msg.Offset, "err", err)
		h.mu.Lock()
		h.invalid++
		h.mu.Unlock()
		metrics.RecordRow(h.job, "invalid", 1)
		return
	}

	h.mu.Lock()
	h.events++
	accepted := h.w.Add(ev.Key(), ev.Dropoff)
	if !accepted {
		h.late++
	}
	h.mu.Unlock()

	metrics.RecordRow(h.job, "events", 1)
	if !accepted {
		metrics.RecordRow(h.job, "late", 1)
		h.logger.Debugw("dropping late event",
			"partition", msg.Partition, "offset", msg.Offset, "event_time", ev.Dropoff)
	}
}

// writer is the part of Sink a checkpoint needs.
type writer interface {
	Write(ctx context.Context, sessions []Session) (int64, error)
}

// checkpoint writes the sessions the watermark has closed, or every open
// session when final is set, then commits the marked offsets. Sessions of a
// failed write go back to the windower and nothing is committed.
func (h *handler) checkpoint(ctx context.Context, sink writer, final bool) error {
	return metrics.Time(h.job, metrics.StepCheckpoint, func() error {
		h.mu.Lock()
		var closed []Session
		if final {
			closed = h.w.Flush()
		} else {
			closed = h.w.Closed()
		}
		sess := h.sess
		wm, open := h.w.Watermark(), h.w.Open()
		h.mu.Unlock()

		n, err := sink.Write(ctx, closed)
		if err != nil {
			h.mu.Lock()
			h.w.Restore(closed)
			h.failed = true
			h.mu.Unlock()
			return err
		}

		h.mu.Lock()
		h.sessions += n
		commit := sess != nil && !h.failed
		h.mu.Unlock()
		if commit {
			sess.Commit()
		}
		metrics.RecordRow(h.job, "sessions", n)

		if n > 0 || final {
			h.logger.Infow("checkpoint",
				"written", n, "open", open, "watermark", wm, "final", final)
		}
		return nil
	})
}

func (h *handler) result(res *Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	res.Events = h.events
	res.Late = h.late
	res.Invalid = h.invalid
	res.Sessions = h.sessions
}
