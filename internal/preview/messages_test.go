package preview

import (
	"errors"
	"testing"

	"github.com/tidwall/gjson"
)

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"kind":"ready"}`))
	if err != nil {
		t.Fatalf("ready: %v", err)
	}
	if _, ok := ev.(ReadyEvent); !ok {
		t.Fatalf("expected ReadyEvent, got %T", ev)
	}

	ev, err = DecodeEvent([]byte(`{"kind":"viewport-changed","scrollOffset":400,"viewportHeight":600.5,"rowHeight":20}`))
	if err != nil {
		t.Fatalf("viewport-changed: %v", err)
	}
	vc, ok := ev.(ViewportChangedEvent)
	if !ok {
		t.Fatalf("expected ViewportChangedEvent, got %T", ev)
	}
	if vc.ScrollOffset != 400 || vc.ViewportHeight != 600.5 || vc.RowHeight != 20 {
		t.Fatalf("unexpected event %+v", vc)
	}
}

func TestDecodeEventRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"malformed", `{"kind":`},
		{"not an object", `[1,2]`},
		{"missing kind", `{"scrollOffset":1}`},
		{"kind not string", `{"kind":3}`},
		{"unknown kind", `{"kind":"hex-chunk"}`},
		{"string number", `{"kind":"viewport-changed","scrollOffset":"1","viewportHeight":1,"rowHeight":1}`},
		{"negative", `{"kind":"viewport-changed","scrollOffset":-1,"viewportHeight":1,"rowHeight":1}`},
		{"zero row height", `{"kind":"viewport-changed","scrollOffset":0,"viewportHeight":1,"rowHeight":0}`},
		{"missing field", `{"kind":"viewport-changed","scrollOffset":0,"rowHeight":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEvent([]byte(tt.in))
			if !errors.Is(err, ErrInvalidEvent) {
				t.Fatalf("DecodeEvent(%s) error = %v, want ErrInvalidEvent", tt.in, err)
			}
		})
	}
}

func TestEncodeMessageTagsKind(t *testing.T) {
	data, err := EncodeMessage(ByteWindowMessage{Session: "s1", Offset: 4096, Data: []byte{1, 2}, BytesRead: 2, TotalSize: 4098})
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	res := gjson.ParseBytes(data)
	if res.Get("kind").String() != "byte-window" {
		t.Fatalf("kind missing: %s", data)
	}
	if res.Get("offset").Int() != 4096 || res.Get("totalSize").Int() != 4098 || res.Get("bytesRead").Int() != 2 {
		t.Fatalf("fields not encoded: %s", data)
	}

	data, err = EncodeMessage(LineBatchMessage{Lines: []string{"a", "b"}, EOF: true})
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	res = gjson.ParseBytes(data)
	if res.Get("kind").String() != "line-batch" || res.Get("lines.1").String() != "b" || !res.Get("eof").Bool() {
		t.Fatalf("unexpected line batch encoding: %s", data)
	}
}

func TestEncodeMessageNil(t *testing.T) {
	if _, err := EncodeMessage(nil); err == nil {
		t.Fatalf("expected error for nil message")
	}
}
