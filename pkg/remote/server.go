package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/willbeason/mandelbrot/pkg/explorer"
	"github.com/willbeason/mandelbrot/pkg/viewport"
	"image/png"
	"io"
	"log"
	"net/http"
	"time"
)

type Option func(*Server)

func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithOriginPatterns allows cross-origin websocket clients.
func WithOriginPatterns(patterns ...string) Option {
	return func(s *Server) {
		s.originPatterns = patterns
	}
}

// A Server gives every websocket client its own Explorer. Clients send
// Messages and receive a PNG frame followed by a Status after each change.
type Server struct {
	cfg            explorer.Config
	logger         *log.Logger
	originPatterns []string
}

// NewServer validates cfg up front so a bad config fails at startup rather
// than on the first connection.
func NewServer(cfg explorer.Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.originPatterns,
	})
	if err != nil {
		s.logger.Printf("websocket accept: %v", err)
		return
	}
	defer c.CloseNow()

	s.logger.Printf("client connected: %s", r.RemoteAddr)

	err = s.serve(r.Context(), c)
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		err = nil
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		s.logger.Printf("client %s: %v", r.RemoteAddr, err)
	}

	s.logger.Printf("client disconnected: %s", r.RemoteAddr)
	c.Close(websocket.StatusNormalClosure, "")
}

// serve runs one session. Events that arrive while a frame renders are
// applied together, and only the resulting view is rendered.
func (s *Server) serve(ctx context.Context, c *websocket.Conn) error {
	e, err := explorer.New(s.cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan viewport.Event, 64)
	readErr := make(chan error, 1)
	go func() {
		readErr <- s.readLoop(ctx, c, events)
	}()

	if err := s.sendFrame(ctx, c, e); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			return err
		case ev := <-events:
			changed := e.Handle(ev)

			for drained := false; !drained; {
				select {
				case ev := <-events:
					changed = e.Handle(ev) || changed
				default:
					drained = true
				}
			}

			if !changed {
				continue
			}
			if err := s.sendFrame(ctx, c, e); err != nil {
				return err
			}
		}
	}
}

func (s *Server) readLoop(ctx context.Context, c *websocket.Conn, events chan<- viewport.Event) error {
	for {
		var m Message
		if err := wsjson.Read(ctx, c, &m); err != nil {
			return err
		}

		ev, err := m.Event()
		if err != nil {
			s.logger.Printf("ignoring message: %v", err)
			continue
		}

		select {
		case events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Server) sendFrame(ctx context.Context, c *websocket.Conn, e *explorer.Explorer) error {
	start := time.Now()
	frame, err := e.FrameContext(ctx)
	if err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}
	elapsed := time.Since(start)

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, frame); err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}

	if err := c.Write(ctx, websocket.MessageBinary, buf.Bytes()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}

	if err := wsjson.Write(ctx, c, newStatus(e, elapsed.Milliseconds())); err != nil {
		return fmt.Errorf("writing status: %w", err)
	}

	return nil
}
