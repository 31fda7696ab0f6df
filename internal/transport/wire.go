package transport

import (
	"encoding/json"
	"fmt"
	"strings"
)

// tmWire is the JSON wire shape for a TM datagram, per spec section 6.
// payload bytes themselves are not sent — payload_len is advisory only.
type tmWire struct {
	Type       string  `json:"type"`
	Seq        uint32  `json:"seq"`
	TS         float64 `json:"ts"`
	ElevDeg    float64 `json:"elev_deg"`
	DopplerHz  float64 `json:"doppler_hz"`
	Visible    bool    `json:"visible"`
	Corrupted  bool    `json:"corrupted"`
	Duplicated bool    `json:"duplicated"`
	RFNote     string  `json:"rf_note,omitempty"`
	PayloadLen int     `json:"payload_len"`
}

// EncodeTM marshals a TM packet to its wire JSON form. visible is passed
// separately because it belongs to the geometry snapshot, not the packet.
func EncodeTM(p Packet, visible bool) ([]byte, error) {
	return json.Marshal(tmWire{
		Type:       "TM",
		Seq:        p.Seq,
		TS:         p.TS,
		ElevDeg:    p.ElevDeg,
		DopplerHz:  p.DopplerHz,
		Visible:    visible,
		Corrupted:  p.Corrupted,
		Duplicated: p.Duplicated,
		RFNote:     p.RFNote,
		PayloadLen: p.PayloadLen,
	})
}

// TMRecord is a decoded TM datagram together with the visibility flag
// that rode along on the wire (used by the BBU to classify LIVE vs HIST).
type TMRecord struct {
	Raw        []byte // the original wire bytes, re-sent verbatim to clients
	Seq        uint32
	Visible    bool
	Corrupted  bool
	Duplicated bool
}

// DecodeTM parses a TM wire datagram. Malformed input returns an error;
// per spec section 7 that is never a fatal condition for the caller.
func DecodeTM(raw []byte) (TMRecord, error) {
	var w tmWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return TMRecord{}, fmt.Errorf("decode TM: %w", err)
	}
	return TMRecord{
		Raw:        raw,
		Seq:        w.Seq,
		Visible:    w.Visible,
		Corrupted:  w.Corrupted,
		Duplicated: w.Duplicated,
	}, nil
}

// EncodeTC returns the plain UTF-8 command string as bytes — TC datagrams
// carry no framing (spec section 6).
func EncodeTC(cmd string) []byte {
	return []byte(cmd)
}

// DecodeTC trims whitespace from a raw TC datagram. Non-UTF-8 input is
// lossily decoded rather than dropped, per spec section 7.
func DecodeTC(raw []byte) string {
	return strings.TrimSpace(string(raw))
}

// StreamMode tags a BBU→client TM stream record as either a live frame
// or a last-known-value history beacon.
type StreamMode string

const (
	ModeLive StreamMode = "LIVE"
	ModeHist StreamMode = "HIST"
)

// EncodeStreamRecord frames a TM record for the BBU→client monitoring
// stream as "<mode>|<raw-json>", per spec section 6. There is no length
// prefix; the client splits on the first '|'.
func EncodeStreamRecord(mode StreamMode, raw []byte) []byte {
	out := make([]byte, 0, len(mode)+1+len(raw))
	out = append(out, mode...)
	out = append(out, '|')
	out = append(out, raw...)
	return out
}
