package wsevents

import "time"

// Typed event schemas broadcast by components through Hub.BroadcastJSON.
// Every event the daemons broadcast is one of the types declared here,
// so the schema has one authoritative definition instead of living only
// in broadcast call sites.

// StatusEvent mirrors the snapshot fields the status reporter (spec
// section 4.8) broadcasts on every tick.
type StatusEvent struct {
	Type         string  `json:"type"`
	TS           string  `json:"ts"`
	Component    string  `json:"component"`
	Visible      bool    `json:"visible"`
	ElevDeg      float64 `json:"elev_deg"`
	DopplerHz    float64 `json:"doppler_hz"`
	RateDLMbps   float64 `json:"rate_dl_mbps"`
	RateULMbps   float64 `json:"rate_ul_mbps"`
	LiveDepth    int     `json:"live_depth"`
	HistoryDepth int     `json:"history_depth"`
	TCQueueDepth int     `json:"tc_queue_depth"`
}

// NewStatusEvent stamps a StatusEvent with the current time and
// component name, matching the shape every event in this package uses.
func NewStatusEvent(component string) StatusEvent {
	return StatusEvent{
		Type:      "status",
		TS:        time.Now().UTC().Format(time.RFC3339Nano),
		Component: component,
	}
}

// TCExecutedEvent is broadcast by the SAT executor (spec section 4.5)
// whenever a telecommand survives the uplink channel and is executed.
type TCExecutedEvent struct {
	Type      string `json:"type"`
	TS        string `json:"ts"`
	Component string `json:"component"`
	Cmd       string `json:"cmd"`
}

// NewTCExecutedEvent stamps a TCExecutedEvent for cmd.
func NewTCExecutedEvent(component, cmd string) TCExecutedEvent {
	return TCExecutedEvent{
		Type:      "tc_executed",
		TS:        time.Now().UTC().Format(time.RFC3339Nano),
		Component: component,
		Cmd:       cmd,
	}
}
