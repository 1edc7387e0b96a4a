package preview

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Kind tags every message crossing the session boundary.
type Kind string

const (
	KindReady           Kind = "ready"
	KindViewportChanged Kind = "viewport-changed"

	KindByteWindow Kind = "byte-window"
	KindLineBatch  Kind = "line-batch"
	KindError      Kind = "error"
)

// Message is an outbound notification for the rendering side. The set of
// implementations is closed.
type Message interface {
	Kind() Kind
	isMessage()
}

// ByteWindowMessage carries a fetched hex window.
type ByteWindowMessage struct {
	Session   string `json:"session"`
	Offset    uint64 `json:"offset"`
	Data      []byte `json:"data"`
	BytesRead uint32 `json:"bytesRead"`
	TotalSize uint64 `json:"totalSize"`
}

// LineBatchMessage carries newly assembled lines starting at FirstLine.
type LineBatchMessage struct {
	Session        string   `json:"session"`
	Offset         uint64   `json:"offset"`
	FirstLine      int64    `json:"firstLine"`
	Lines          []string `json:"lines"`
	RemainderBytes []byte   `json:"remainderBytes"`
	TotalSize      uint64   `json:"totalSize"`
	EOF            bool     `json:"eof"`
}

// ErrorMessage reports a non-fatal failure. Source is "fetch" for a failed
// read and "decode" for an inbound event that failed validation.
type ErrorMessage struct {
	Session string `json:"session"`
	Source  string `json:"source"`
	Offset  uint64 `json:"offset,omitempty"`
	Path    string `json:"path,omitempty"`
	Error   string `json:"error"`
}

func (ByteWindowMessage) Kind() Kind { return KindByteWindow }
func (LineBatchMessage) Kind() Kind  { return KindLineBatch }
func (ErrorMessage) Kind() Kind      { return KindError }

func (ByteWindowMessage) isMessage() {}
func (LineBatchMessage) isMessage()  {}
func (ErrorMessage) isMessage()      {}

// Event is an inbound trigger from the rendering side.
type Event interface {
	Kind() Kind
	isEvent()
}

// ReadyEvent signals that the consumer can receive messages.
type ReadyEvent struct{}

// ViewportChangedEvent reports a new scroll position or size.
type ViewportChangedEvent struct {
	ScrollOffset   float64
	ViewportHeight float64
	RowHeight      float64
}

func (ReadyEvent) Kind() Kind           { return KindReady }
func (ViewportChangedEvent) Kind() Kind { return KindViewportChanged }

func (ReadyEvent) isEvent()           {}
func (ViewportChangedEvent) isEvent() {}

// Viewport converts the event into scheduler input.
func (e ViewportChangedEvent) Viewport() Viewport {
	return Viewport{ScrollOffset: e.ScrollOffset, Height: e.ViewportHeight, RowHeight: e.RowHeight}
}

// ErrInvalidEvent is wrapped by every DecodeEvent failure.
var ErrInvalidEvent = errors.New("invalid event")

// EncodeMessage renders m as a JSON object with its kind in "kind".
func EncodeMessage(m Message) ([]byte, error) {
	if m == nil {
		return nil, errors.New("nil message")
	}
	body, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(body, "kind", string(m.Kind()))
}

// DecodeEvent parses and validates one inbound JSON event.
func DecodeEvent(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidEvent)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected an object", ErrInvalidEvent)
	}
	kind := root.Get("kind")
	if kind.Type != gjson.String {
		return nil, fmt.Errorf("%w: missing kind", ErrInvalidEvent)
	}

	switch Kind(kind.Str) {
	case KindReady:
		return ReadyEvent{}, nil
	case KindViewportChanged:
		scroll, err := nonNegative(root, "scrollOffset")
		if err != nil {
			return nil, err
		}
		height, err := nonNegative(root, "viewportHeight")
		if err != nil {
			return nil, err
		}
		rowHeight, err := nonNegative(root, "rowHeight")
		if err != nil {
			return nil, err
		}
		if rowHeight == 0 {
			return nil, fmt.Errorf("%w: rowHeight must be positive", ErrInvalidEvent)
		}
		return ViewportChangedEvent{ScrollOffset: scroll, ViewportHeight: height, RowHeight: rowHeight}, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, kind.Str)
	}
}

func nonNegative(root gjson.Result, field string) (float64, error) {
	v := root.Get(field)
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidEvent, field)
	}
	if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) || v.Num < 0 {
		return 0, fmt.Errorf("%w: %s out of range", ErrInvalidEvent, field)
	}
	return v.Num, nil
}
