// Package sat implements the spacecraft-side process: the TM producer
// (C4) and the TC receiver/executor (C5), plus the HTTP status surface
// shared in shape with the BBU process (spec section 4.4, 4.5, 4.8).
package sat

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/groundstation/satsim/internal/config"
	"github.com/groundstation/satsim/internal/gpsd"
	"github.com/groundstation/satsim/internal/orbit"
	"github.com/groundstation/satsim/internal/rfchannel"
	"github.com/groundstation/satsim/internal/status"
	"github.com/groundstation/satsim/internal/wsevents"
)

// Options holds everything the App needs from its caller.
type Options struct {
	Logger *logrus.Logger
	Cfg    config.Config
}

// App is the spacecraft daemon: it owns the orbit model, the RF channel,
// the TM producer, the TC executor, and the HTTP status surface.
type App struct {
	log *logrus.Logger
	cfg config.Config

	model   orbit.Model
	channel *rfchannel.Channel
	hub     *wsevents.Hub
	metrics *status.Metrics

	producer *Producer
	executor *Executor

	startedAt time.Time
	server    *http.Server
}

// New resolves the ground station location, builds the orbit model and
// RF channel, and wires the producer and executor, which dials the TM
// UDP destination and binds the TC UDP socket. It starts no goroutines —
// call Run for that.
func New(opts Options) (*App, error) {
	cfg := opts.Cfg
	log := opts.Logger

	lat, lon, alt := cfg.Station.Latitude, cfg.Station.Longitude, cfg.Station.Altitude
	if cfg.Station.UseGPSD {
		loc, err := gpsd.Resolve(cfg.Station.GPSDHost, 3*time.Second)
		if err != nil {
			log.WithError(err).Warn("sat: gpsd resolution failed, using static station config")
		} else {
			lat, lon, alt = loc.Lat, loc.Lon, loc.Alt
			log.WithFields(logrus.Fields{"lat": lat, "lon": lon, "alt": alt}).Info("sat: resolved station position via gpsd")
		}
	}

	oc := orbit.FromConfig(cfg.Orbit, lat, lon, alt, cfg.Station.ElevMaskDeg)
	model := orbit.New(oc)

	channel := rfchannel.New(rfchannel.Config{
		PropDelayS:  cfg.Channel.PropDelayS,
		BaseLoss:    cfg.Channel.BaseLoss,
		BaseBER:     cfg.Channel.BaseBER,
		BaseDup:     cfg.Channel.BaseDup,
		BurstStart:  cfg.Channel.BurstStart,
		FadeLenPkts: cfg.Channel.FadeLenPkts,
	})

	hub := wsevents.NewHub()
	metrics := status.NewMetrics("satsim_sat")

	producer, err := NewProducer(model, channel, cfg.SAT.TMSendAddr, cfg.Producer, cfg.Station.ElevMaskDeg, hub, log, metrics)
	if err != nil {
		return nil, err
	}
	executor, err := NewExecutor(model, channel, cfg.SAT.TCListenAddr, cfg.SAT.TCQueueCap, cfg.Station.ElevMaskDeg, hub, log)
	if err != nil {
		producer.Close()
		return nil, err
	}

	return &App{
		log:       log,
		cfg:       cfg,
		model:     model,
		channel:   channel,
		hub:       hub,
		metrics:   metrics,
		producer:  producer,
		executor:  executor,
		startedAt: time.Now(),
	}, nil
}

// Run starts the HTTP status surface, the producer, the executor, and
// the status reporter. It blocks until ctx is cancelled, then shuts
// everything down gracefully.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/api/status", a.handleStatus)
	mux.Handle("/metrics", promhttp.HandlerFor(a.metrics.Registry, promhttp.HandlerOpts{}))
	mux.Handle("/ws", a.hub.Handler())

	a.server = &http.Server{
		Addr:              a.cfg.SAT.StatusBind,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", a.cfg.SAT.StatusBind)
	if err != nil {
		return err
	}
	a.log.WithField("addr", a.cfg.SAT.StatusBind).Info("sat: status surface listening")

	go a.hub.Run(ctx)
	go a.producer.Run(ctx)
	go a.executor.Run(ctx)

	reporter := status.New("sat", 3*time.Second, a.hub, a.log, a.metrics, a.snapshot)
	go reporter.Run(ctx)

	go func() {
		<-ctx.Done()
		a.log.Info("sat: shutdown requested")
		_ = a.server.Shutdown(context.Background())
		a.producer.Close()
		a.executor.Close()
	}()

	if err := a.server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) snapshot() status.Snapshot {
	g := a.model.GetState(time.Now())
	return status.Snapshot{
		Visible:      g.Visible,
		ElevDeg:      g.ElevDeg,
		DopplerHz:    g.DopplerHz,
		RateDLMbps:   g.RateDLMbps,
		RateULMbps:   g.RateULMbps,
		TCQueueDepth: a.executor.QueueDepth(),
	}
}

func (a *App) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s := a.snapshot()
	resp := map[string]any{
		"name":            "satsimd-sat",
		"uptime_seconds":  int64(time.Since(a.startedAt).Seconds()),
		"visible":         s.Visible,
		"elev_deg":        s.ElevDeg,
		"doppler_hz":      s.DopplerHz,
		"rate_dl_mbps":    s.RateDLMbps,
		"rate_ul_mbps":    s.RateULMbps,
		"tc_queue_depth":  s.TCQueueDepth,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
