package log

import (
	"testing"
	"time"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 30, 0, 123456789, time.UTC)
	event := Event{
		Timestamp: ts,
		CallID:    "6f1c1b3e-0000-4000-8000-000000000001",
		Operation: OpDecode,
		Model:     "Mine",
		Size:      42,
		Fields:    4,
		Duration:  1500 * time.Microsecond,
		Versioned: true,
		Error: &ErrorData{
			Kind:    ErrorKindTruncated,
			Message: "unexpected end of buffer",
		},
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(ts) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, ts)
	}
	if decoded.CallID != event.CallID {
		t.Errorf("CallID: got %q, want %q", decoded.CallID, event.CallID)
	}
	if decoded.Operation != OpDecode {
		t.Errorf("Operation: got %v, want %v", decoded.Operation, OpDecode)
	}
	if decoded.Model != "Mine" || decoded.Size != 42 || decoded.Fields != 4 {
		t.Errorf("unexpected payload: %+v", decoded)
	}
	if decoded.Duration != event.Duration {
		t.Errorf("Duration: got %v, want %v", decoded.Duration, event.Duration)
	}
	if !decoded.Versioned {
		t.Error("Versioned lost in round trip")
	}
	if decoded.Error == nil || decoded.Error.Kind != ErrorKindTruncated {
		t.Errorf("Error: got %+v", decoded.Error)
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{OpEncode.String(), "ENCODE"},
		{OpDecode.String(), "DECODE"},
		{Operation(9).String(), "UNKNOWN"},
		{ErrorKindModel.String(), "MODEL"},
		{ErrorKindDictFormat.String(), "DICT_FORMAT"},
		{ErrorKindBufferFormat.String(), "BUFFER_FORMAT"},
		{ErrorKindTruncated.String(), "TRUNCATED"},
		{ErrorKindVersion.String(), "VERSION"},
		{ErrorKindOther.String(), "OTHER"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
