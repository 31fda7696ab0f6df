package ctl

import (
	"fmt"
	"strings"
	"time"
)

// StatusResponse mirrors the JSON returned by GET /api/status on either
// satsimd-sat or satsimd-bbu. Buffer-depth fields are zero on the SAT
// side, which has no live/history buffers.
type StatusResponse struct {
	Name          string  `json:"name"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	Visible       bool    `json:"visible"`
	ElevDeg       float64 `json:"elev_deg"`
	DopplerHz     float64 `json:"doppler_hz"`
	RateDLMbps    float64 `json:"rate_dl_mbps"`
	RateULMbps    float64 `json:"rate_ul_mbps"`
	LiveDepth     int     `json:"live_depth"`
	HistoryDepth  int     `json:"history_depth"`
	TCQueueDepth  int     `json:"tc_queue_depth"`
}

// Status fetches the daemon status and prints a formatted summary.
func Status(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var s StatusResponse
	if err := getJSON(baseURL, "/api/status", &s); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(s)
	}

	uptime := formatDuration(time.Duration(s.UptimeSeconds) * time.Second)
	visStr := boolLabel(s.Visible, "VISIBLE", "NOT VISIBLE")

	fmt.Println()
	fmt.Println(header("  SATSIM STATUS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 40)))
	fmt.Printf("  %-14s %s\n", colorize(dim, "Daemon:"), s.Name)
	fmt.Printf("  %-14s %s\n", colorize(dim, "Link:"), visStr)
	fmt.Printf("  %-14s %.1f°\n", colorize(dim, "Elevation:"), s.ElevDeg)
	fmt.Printf("  %-14s %.1f Hz\n", colorize(dim, "Doppler:"), s.DopplerHz)
	fmt.Printf("  %-14s %s\n", colorize(dim, "Downlink:"), formatRate(s.RateDLMbps))
	fmt.Printf("  %-14s %s\n", colorize(dim, "Uplink:"), formatRate(s.RateULMbps))
	if strings.Contains(s.Name, "bbu") {
		fmt.Printf("  %-14s %d frames\n", colorize(dim, "Live buffer:"), s.LiveDepth)
		fmt.Printf("  %-14s %d frames\n", colorize(dim, "History:"), s.HistoryDepth)
	}
	fmt.Printf("  %-14s %d\n", colorize(dim, "TC queue:"), s.TCQueueDepth)
	fmt.Printf("  %-14s %s\n", colorize(dim, "Uptime:"), uptime)
	fmt.Printf("  %-14s %s\n", colorize(dim, "Host:"), baseURL)
	fmt.Println()

	return nil
}
