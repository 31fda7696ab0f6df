// Package bbu implements the ground-side baseband unit process: the TM
// ingress/distributor (C6), the TC ingress/uplink (C7), and the shared
// HTTP status surface (spec section 4.6, 4.7, 4.8).
package bbu

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

// App is the ground daemon: it owns the orbit model (used to gate
// uplink visibility and to choose LIVE vs HIST when pacing the TM
// stream; admission to the live buffer follows the visibility flag that
// arrived on the wire), the RF channel, the distributor, the uplink, and
// the HTTP status surface.
type App struct {
	log *logrus.Logger
	cfg config.Config

	model   orbit.Model
	channel *rfchannel.Channel
	hub     *wsevents.Hub
	metrics *status.Metrics

	distributor *Distributor
	uplink      *Uplink

	startedAt time.Time
	server    *http.Server
}

// New resolves the ground station location, builds the shared orbit
// model and RF channel, and wires the distributor and uplink.
func New(opts Options) (*App, error) {
	cfg := opts.Cfg
	log := opts.Logger

	lat, lon, alt := cfg.Station.Latitude, cfg.Station.Longitude, cfg.Station.Altitude
	if cfg.Station.UseGPSD {
		loc, err := gpsd.Resolve(cfg.Station.GPSDHost, 3*time.Second)
		if err != nil {
			log.WithError(err).Warn("bbu: gpsd resolution failed, using static station config")
		} else {
			lat, lon, alt = loc.Lat, loc.Lon, loc.Alt
			log.WithFields(logrus.Fields{"lat": lat, "lon": lon, "alt": alt}).Info("bbu: resolved station position via gpsd")
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
	metrics := status.NewMetrics("satsim_bbu")

	distributor, err := NewDistributor(cfg.BBU.TMListenAddr, cfg.Buffers.LiveCap, cfg.Buffers.HistCap, log)
	if err != nil {
		return nil, err
	}
	uplink, err := NewUplink(model, channel, cfg.SAT.TCListenAddr, cfg.BBU.TCQueueCap, cfg.Station.ElevMaskDeg, log)
	if err != nil {
		distributor.Close()
		return nil, err
	}

	return &App{
		log:         log,
		cfg:         cfg,
		model:       model,
		channel:     channel,
		hub:         hub,
		metrics:     metrics,
		distributor: distributor,
		uplink:      uplink,
		startedAt:   time.Now(),
	}, nil
}

// Run starts the HTTP status surface, the distributor's ingress and TCP
// server, the uplink's accept server and drain loop, and the status
// reporter. It blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/api/status", a.handleStatus)
	mux.Handle("/metrics", promhttp.HandlerFor(a.metrics.Registry, promhttp.HandlerOpts{}))
	mux.Handle("/ws", a.hub.Handler())

	a.server = &http.Server{
		Addr:              a.cfg.BBU.StatusBind,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", a.cfg.BBU.StatusBind)
	if err != nil {
		return err
	}
	a.log.WithField("addr", a.cfg.BBU.StatusBind).Info("bbu: status surface listening")

	go a.hub.Run(ctx)
	go a.distributor.RunIngress(ctx)
	go func() {
		if err := a.distributor.RunServer(ctx, a.cfg.BBU.TMAcceptAddr, a.visible); err != nil {
			a.log.WithError(err).Fatal("bbu: TM accept server failed to bind")
		}
	}()
	go func() {
		if err := a.uplink.RunServer(ctx, a.cfg.BBU.TCAcceptAddr); err != nil {
			a.log.WithError(err).Fatal("bbu: TC accept server failed to bind")
		}
	}()
	go a.uplink.RunUplink(ctx)

	reporter := status.New("bbu", 3*time.Second, a.hub, a.log, a.metrics, a.snapshot)
	go reporter.Run(ctx)

	go func() {
		<-ctx.Done()
		a.log.Info("bbu: shutdown requested")
		_ = a.server.Shutdown(context.Background())
		a.distributor.Close()
		a.uplink.Close()
	}()

	if err := a.server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) visible() bool {
	return a.model.GetState(time.Now()).Visible
}

func (a *App) snapshot() status.Snapshot {
	g := a.model.GetState(time.Now())
	return status.Snapshot{
		Visible:      g.Visible,
		ElevDeg:      g.ElevDeg,
		DopplerHz:    g.DopplerHz,
		RateDLMbps:   g.RateDLMbps,
		RateULMbps:   g.RateULMbps,
		LiveDepth:    a.distributor.LiveDepth(),
		HistDepth:    a.distributor.HistDepth(),
		TCQueueDepth: a.uplink.QueueDepth(),
	}
}

func (a *App) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s := a.snapshot()
	resp := map[string]any{
		"name":           "satsimd-bbu",
		"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
		"visible":        s.Visible,
		"elev_deg":       s.ElevDeg,
		"doppler_hz":     s.DopplerHz,
		"rate_dl_mbps":   s.RateDLMbps,
		"rate_ul_mbps":   s.RateULMbps,
		"live_depth":     s.LiveDepth,
		"history_depth":  s.HistDepth,
		"tc_queue_depth": s.TCQueueDepth,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
