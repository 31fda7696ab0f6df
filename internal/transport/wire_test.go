package transport

import "testing"

func TestEncodeDecodeTMRoundTrip(t *testing.T) {
	p := Packet{Kind: TM, Seq: 42, TS: 100.5, ElevDeg: 12.3, DopplerHz: -450.2, PayloadLen: 256}
	raw, err := EncodeTM(p, true)
	if err != nil {
		t.Fatalf("EncodeTM: %v", err)
	}

	rec, err := DecodeTM(raw)
	if err != nil {
		t.Fatalf("DecodeTM: %v", err)
	}
	if rec.Seq != p.Seq {
		t.Errorf("seq = %d, want %d", rec.Seq, p.Seq)
	}
	if !rec.Visible {
		t.Errorf("visible = false, want true")
	}
	if string(rec.Raw) != string(raw) {
		t.Errorf("raw bytes not preserved verbatim")
	}
}

func TestDecodeTMMalformedIsError(t *testing.T) {
	if _, err := DecodeTM([]byte("not json")); err == nil {
		t.Fatal("expected error decoding malformed TM frame")
	}
}

func TestDecodeTCTrimsWhitespace(t *testing.T) {
	got := DecodeTC([]byte("  PING\r\n"))
	if got != "PING" {
		t.Errorf("DecodeTC = %q, want %q", got, "PING")
	}
}

func TestEncodeStreamRecordFraming(t *testing.T) {
	raw := []byte(`{"type":"TM"}`)
	out := EncodeStreamRecord(ModeLive, raw)
	want := "LIVE|" + string(raw)
	if string(out) != want {
		t.Errorf("EncodeStreamRecord = %q, want %q", out, want)
	}

	out = EncodeStreamRecord(ModeHist, raw)
	want = "HIST|" + string(raw)
	if string(out) != want {
		t.Errorf("EncodeStreamRecord = %q, want %q", out, want)
	}
}

func TestPacketCloneDoesNotAliasPayload(t *testing.T) {
	p := Packet{Payload: []byte{1, 2, 3}}
	cp := p.Clone()
	cp.Payload[0] = 99
	if p.Payload[0] == 99 {
		t.Fatal("Clone aliased the original payload slice")
	}
}
