package status

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/groundstation/satsim/internal/wsevents"
)

// Snapshot is the read-only state the reporter emits (spec section 4.8).
// Not every field applies to both processes: the SAT side has no
// live/history buffers, and its TCQueueDepth reflects the executor's
// inbound queue rather than the BBU's outbound one.
type Snapshot struct {
	Visible      bool
	ElevDeg      float64
	DopplerHz    float64
	RateDLMbps   float64
	RateULMbps   float64
	LiveDepth    int
	HistDepth    int
	TCQueueDepth int
}

// Reporter periodically logs and broadcasts a Snapshot. It never mutates
// any component's state — it only reads, via the Collect callback
// supplied at construction.
type Reporter struct {
	component string
	interval  time.Duration
	hub       *wsevents.Hub
	log       *logrus.Logger
	metrics   *Metrics
	collect   func() Snapshot
}

// New creates a status Reporter. interval defaults to 3s (spec section
// 4.8) when zero.
func New(component string, interval time.Duration, hub *wsevents.Hub, log *logrus.Logger, metrics *Metrics, collect func() Snapshot) *Reporter {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Reporter{
		component: component,
		interval:  interval,
		hub:       hub,
		log:       log,
		metrics:   metrics,
		collect:   collect,
	}
}

// Run emits a snapshot on every tick until ctx is cancelled.
func (r *Reporter) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.emit()
		}
	}
}

func (r *Reporter) emit() {
	s := r.collect()

	if r.metrics != nil {
		r.metrics.Apply(s)
	}

	r.log.WithFields(logrus.Fields{
		"component": r.component,
		"visible":   s.Visible,
		"elev_deg":  s.ElevDeg,
		"rate_dl":   s.RateDLMbps,
		"rate_ul":   s.RateULMbps,
		"live":      s.LiveDepth,
		"history":   s.HistDepth,
		"tc_queue":  s.TCQueueDepth,
	}).Info("status")

	ev := wsevents.NewStatusEvent(r.component)
	ev.Visible = s.Visible
	ev.ElevDeg = s.ElevDeg
	ev.DopplerHz = s.DopplerHz
	ev.RateDLMbps = s.RateDLMbps
	ev.RateULMbps = s.RateULMbps
	ev.LiveDepth = s.LiveDepth
	ev.HistoryDepth = s.HistDepth
	ev.TCQueueDepth = s.TCQueueDepth
	r.hub.BroadcastJSON(ev)
}
