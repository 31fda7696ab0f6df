// Package config handles loading, defaulting, and validation of satsim's
// TOML configuration. Every section maps to a typed struct shared by the
// SAT and BBU daemons, so both sides agree on orbit, channel, and buffer
// parameters without needing a network round trip to synchronize them.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration, mirroring the TOML sections.
type Config struct {
	Logging  LoggingConfig  `toml:"logging"  json:"logging"`
	Orbit    OrbitConfig    `toml:"orbit"    json:"orbit"`
	Channel  ChannelConfig  `toml:"channel"  json:"channel"`
	Producer ProducerConfig `toml:"producer" json:"producer"`
	Buffers  BuffersConfig  `toml:"buffers"  json:"buffers"`
	Station  StationConfig  `toml:"station"  json:"station"`
	SAT      SATConfig      `toml:"sat"      json:"sat"`
	BBU      BBUConfig      `toml:"bbu"      json:"bbu"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

// OrbitConfig carries everything orbit.Config needs except the ground
// station position, which lives in StationConfig so it can be resolved
// via gpsd at runtime independent of the orbital elements.
type OrbitConfig struct {
	ElementsName  string  `toml:"elements_name"  json:"elements_name"`
	ElementsLine1 string  `toml:"elements_line1" json:"elements_line1"`
	ElementsLine2 string  `toml:"elements_line2" json:"elements_line2"`
	CarrierHz     float64 `toml:"carrier_hz"     json:"carrier_hz"`
	DLMaxRateMbps float64 `toml:"dl_max_rate_mbps" json:"dl_max_rate_mbps"`
	ULMaxRateMbps float64 `toml:"ul_max_rate_mbps" json:"ul_max_rate_mbps"`
	RateAlpha     float64 `toml:"rate_alpha"     json:"rate_alpha"`

	FallbackPeriodS    float64 `toml:"fallback_period_s"     json:"fallback_period_s"`
	FallbackPassFrac   float64 `toml:"fallback_pass_fraction" json:"fallback_pass_fraction"`
	FallbackMaxRangeMS float64 `toml:"fallback_max_range_rate_mps" json:"fallback_max_range_rate_mps"`
}

type ChannelConfig struct {
	PropDelayS  float64 `toml:"prop_delay_s" json:"prop_delay_s"`
	BaseLoss    float64 `toml:"base_loss"    json:"base_loss"`
	BaseBER     float64 `toml:"base_ber"     json:"base_ber"`
	BaseDup     float64 `toml:"base_dup"     json:"base_dup"`
	BurstStart  float64 `toml:"burst_start"  json:"burst_start"`
	FadeLenPkts int     `toml:"fade_len"     json:"fade_len"`
}

type ProducerConfig struct {
	TickS          float64 `toml:"tick_s"            json:"tick_s"`
	PayloadBytes   int     `toml:"payload_bytes"     json:"payload_bytes"`
	HeaderBytes    int     `toml:"header_bytes"      json:"header_bytes"`
	MaxPktsPerStep int     `toml:"max_pkts_per_step" json:"max_pkts_per_step"`
}

type BuffersConfig struct {
	LiveCap int `toml:"live_cap" json:"live_cap"`
	HistCap int `toml:"hist_cap" json:"hist_cap"`
}

type StationConfig struct {
	Latitude    float64 `toml:"latitude"      json:"latitude"`
	Longitude   float64 `toml:"longitude"     json:"longitude"`
	Altitude    float64 `toml:"altitude"      json:"altitude"`
	ElevMaskDeg float64 `toml:"elev_mask_deg" json:"elev_mask_deg"`
	UseGPSD     bool    `toml:"use_gpsd"      json:"use_gpsd"`
	GPSDHost    string  `toml:"gpsd_host"     json:"gpsd_host"`
}

// SATConfig configures the spacecraft-side process: where it listens for
// telecommands, and where it sends telemetry.
type SATConfig struct {
	TCListenAddr string `toml:"tc_listen_addr" json:"tc_listen_addr"` // UDP, default :5002
	TMSendAddr   string `toml:"tm_send_addr"   json:"tm_send_addr"`   // UDP, BBU's TM listen address
	StatusBind   string `toml:"status_bind"    json:"status_bind"`   // HTTP status/metrics/ws bind
	TCQueueCap   int    `toml:"tc_queue_cap"   json:"tc_queue_cap"`
}

// BBUConfig configures the ground-side process: its four network
// endpoints (spec section 6) plus its HTTP status surface.
type BBUConfig struct {
	TMListenAddr string `toml:"tm_listen_addr" json:"tm_listen_addr"` // UDP, default :6001
	TCAcceptAddr string `toml:"tc_accept_addr" json:"tc_accept_addr"` // TCP, default :7001
	TMAcceptAddr string `toml:"tm_accept_addr" json:"tm_accept_addr"` // TCP, default :7002
	StatusBind   string `toml:"status_bind"    json:"status_bind"`
	TCQueueCap   int    `toml:"tc_queue_cap"   json:"tc_queue_cap"`
}

// DefaultConfigDir returns the XDG-compliant config directory for satsim.
// It respects $XDG_CONFIG_HOME and falls back to ~/.config/satsim.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "satsim")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "satsim")
}

// ProfileInfo describes a config profile discovered in the config directory.
type ProfileInfo struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	ModTime time.Time `json:"mod_time"`
}

// ListProfiles scans a directory for .toml files and returns them as profiles.
func ListProfiles(configDir string) ([]ProfileInfo, error) {
	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var profiles []ProfileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		profiles = append(profiles, ProfileInfo{
			Name:    strings.TrimSuffix(e.Name(), ".toml"),
			Path:    filepath.Join(configDir, e.Name()),
			ModTime: info.ModTime(),
		})
	}
	return profiles, nil
}

// FindConfigFile searches for a config file in standard locations:
//  1. $SATSIM_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/satsim/config.toml
//  3. /etc/satsim/satsim.toml
//  4. configs/example.toml (bundled fallback)
func FindConfigFile() string {
	if env := os.Getenv("SATSIM_CONFIG"); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env
		}
	}
	xdgPath := filepath.Join(DefaultConfigDir(), "config.toml")
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	legacyPath := "/etc/satsim/satsim.toml"
	if _, err := os.Stat(legacyPath); err == nil {
		return legacyPath
	}
	if _, err := os.Stat("configs/example.toml"); err == nil {
		return "configs/example.toml"
	}
	return ""
}

// Default returns a Config populated with every default named in spec
// section 4 and 6. Values here are used whenever the TOML file omits a
// field.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Orbit: OrbitConfig{
			CarrierHz:          437_000_000,
			DLMaxRateMbps:      0.258,
			ULMaxRateMbps:      0.0096,
			RateAlpha:          1.5,
			FallbackPeriodS:    5400,
			FallbackPassFrac:   1.0,
			FallbackMaxRangeMS: 7500,
		},
		Channel: ChannelConfig{
			PropDelayS:  0.25,
			BaseLoss:    0.08,
			BaseBER:     0.02,
			BaseDup:     0.002,
			BurstStart:  0.0015,
			FadeLenPkts: 25,
		},
		Producer: ProducerConfig{
			TickS:          1.0,
			PayloadBytes:   256,
			HeaderBytes:    32,
			MaxPktsPerStep: 2000,
		},
		Buffers: BuffersConfig{
			LiveCap: 2000,
			HistCap: 5000,
		},
		Station: StationConfig{
			ElevMaskDeg: 10,
			GPSDHost:    "localhost:2947",
		},
		SAT: SATConfig{
			TCListenAddr: ":5002",
			TMSendAddr:   "127.0.0.1:6001",
			StatusBind:   "0.0.0.0:8081",
			TCQueueCap:   1000,
		},
		BBU: BBUConfig{
			TMListenAddr: ":6001",
			TCAcceptAddr: ":7001",
			TMAcceptAddr: ":7002",
			StatusBind:   "0.0.0.0:8082",
			TCQueueCap:   1000,
		},
	}
}

// Load reads the TOML file at path, layers it on top of the defaults,
// and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Station.ElevMaskDeg < 0 || cfg.Station.ElevMaskDeg > 90 {
		return errors.New("station.elev_mask_deg must be between 0 and 90")
	}
	if cfg.Producer.TickS <= 0 {
		return errors.New("producer.tick_s must be > 0")
	}
	if cfg.Producer.PayloadBytes <= 0 {
		return errors.New("producer.payload_bytes must be > 0")
	}
	if cfg.Buffers.LiveCap <= 0 || cfg.Buffers.HistCap <= 0 {
		return errors.New("buffers.live_cap and buffers.hist_cap must be > 0")
	}
	if cfg.Channel.FadeLenPkts <= 0 {
		return errors.New("channel.fade_len must be > 0")
	}
	if cfg.Orbit.RateAlpha < 0 {
		return errors.New("orbit.rate_alpha must be >= 0")
	}
	return nil
}
