package remote

import (
	"bytes"
	"context"
	"errors"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/willbeason/mandelbrot/pkg/explorer"
	"github.com/willbeason/mandelbrot/pkg/viewport"
	"image/png"
	"io"
	"log"
	"math"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := explorer.DefaultConfig()
	cfg.Width, cfg.Height = 80, 60
	cfg.MaxIterations = 32

	s, err := NewServer(cfg, WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { c.CloseNow() })
	return c
}

// readFrame reads one PNG frame and the Status that follows it.
func readFrame(t *testing.T, ctx context.Context, c *websocket.Conn) Status {
	t.Helper()

	typ, data, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	if typ != websocket.MessageBinary {
		t.Fatalf("frame message type = %v, want binary", typ)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding frame: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 60 {
		t.Fatalf("frame bounds = %v, want 80x60", b)
	}

	var s Status
	if err := wsjson.Read(ctx, c, &s); err != nil {
		t.Fatalf("reading status: %v", err)
	}
	return s
}

func TestServer_Session(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := dial(t, ctx, newTestServer(t))

	s := readFrame(t, ctx, c)
	if s.Zoom != 1 || s.CenterReal != -0.5 || s.CenterImaginary != 0 {
		t.Errorf("initial status = %+v", s)
	}
	if s.Width != 80 || s.Height != 60 {
		t.Errorf("initial status size = %dx%d, want 80x60", s.Width, s.Height)
	}

	if err := wsjson.Write(ctx, c, Message{Type: TypeZoomIn, X: 40, Y: 30}); err != nil {
		t.Fatal(err)
	}
	s = readFrame(t, ctx, c)
	if s.Zoom != 1.5 {
		t.Errorf("zoom after zoom_in = %v, want 1.5", s.Zoom)
	}

	// Unknown messages are dropped without ending the session.
	if err := wsjson.Write(ctx, c, Message{Type: "spin"}); err != nil {
		t.Fatal(err)
	}
	if err := wsjson.Write(ctx, c, Message{Type: TypeReset}); err != nil {
		t.Fatal(err)
	}
	s = readFrame(t, ctx, c)
	if s.Zoom != 1 || s.CenterReal != -0.5 || s.CenterImaginary != 0 {
		t.Errorf("status after reset = %+v", s)
	}

	c.Close(websocket.StatusNormalClosure, "")
}

func TestServer_SessionsAreIndependent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ts := newTestServer(t)
	a := dial(t, ctx, ts)
	b := dial(t, ctx, ts)
	readFrame(t, ctx, a)
	readFrame(t, ctx, b)

	if err := wsjson.Write(ctx, a, Message{Type: TypePan, Direction: "right"}); err != nil {
		t.Fatal(err)
	}
	if s := readFrame(t, ctx, a); s.CenterReal <= -0.5 {
		t.Errorf("pan right did not move the center: %+v", s)
	}

	if err := wsjson.Write(ctx, b, Message{Type: TypeZoomOut, Centered: true}); err != nil {
		t.Fatal(err)
	}
	s := readFrame(t, ctx, b)
	if math.Abs(s.CenterReal+0.5) > 1e-9 {
		t.Errorf("second session saw the first session's pan: %+v", s)
	}
}

func TestNewServer_InvalidConfig(t *testing.T) {
	cfg := explorer.DefaultConfig()
	cfg.Width = 0

	_, err := NewServer(cfg)
	if !errors.Is(err, explorer.ErrInvalidDimensions) {
		t.Errorf("NewServer error = %v, want %v", err, explorer.ErrInvalidDimensions)
	}
}

func TestMessage_Event(t *testing.T) {
	tcs := []struct {
		name    string
		message Message
		want    viewport.Event
		wantErr error
	}{
		{
			name:    "zoom in at cursor",
			message: Message{Type: TypeZoomIn, X: 3, Y: 4},
			want:    viewport.ZoomIn{X: 3, Y: 4, Cursor: true},
		},
		{
			name:    "zoom out centered",
			message: Message{Type: TypeZoomOut, Centered: true},
			want:    viewport.ZoomOut{},
		},
		{
			name:    "click",
			message: Message{Type: TypeClick, X: 7, Y: 9},
			want:    viewport.Click{X: 7, Y: 9},
		},
		{
			name:    "pan",
			message: Message{Type: TypePan, Direction: "up"},
			want:    viewport.Pan{Direction: viewport.Up},
		},
		{
			name:    "reset",
			message: Message{Type: TypeReset},
			want:    viewport.Reset{},
		},
		{
			name:    "bad direction",
			message: Message{Type: TypePan, Direction: "sideways"},
			wantErr: ErrUnknownDirection,
		},
		{
			name:    "unknown type",
			message: Message{Type: "spin"},
			wantErr: ErrUnknownMessage,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.message.Event()
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Event() error = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Event() = %#v, want %#v", got, tc.want)
			}
		})
	}
}
