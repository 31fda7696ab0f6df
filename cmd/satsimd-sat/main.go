// Satsimd-sat is the spacecraft-side daemon: it emits telemetry at the
// link-budgeted rate while visible and executes telecommands received
// over the uplink. Shutdown is handled gracefully on SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/groundstation/satsim/internal/config"
	"github.com/groundstation/satsim/internal/sat"
)

func main() {
	var configPath = pflag.StringP("config", "c", "", "Path to config TOML (auto-discovers if omitted)")
	pflag.Parse()

	cfgFile := *configPath
	if cfgFile == "" {
		cfgFile = config.FindConfigFile()
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	var cfg config.Config
	if cfgFile == "" {
		cfg = config.Default()
		log.Info("no config file found, using defaults")
		log.Infof("create %s/config.toml to customize", config.DefaultConfigDir())
	} else {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			log.Fatalf("config load failed: %v", err)
		}
		log.Infof("loaded config from %s", cfgFile)
	}
	if lvl, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetLevel(lvl)
	}

	a, err := sat.New(sat.Options{Logger: log, Cfg: cfg})
	if err != nil {
		log.Fatalf("satsimd-sat: init failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("satsimd-sat: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
}
