package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/glint-ui/glint/pkg/glint"
	"github.com/glint-ui/glint/pkg/protocol"
	"github.com/glint-ui/glint/pkg/remote"
)

// Session is one connected client: a runtime, its remote host, and the
// loop goroutine that owns them. The conn is written to only by the write
// pump; everything touching the tree runs as a loop job.
type Session struct {
	ID string

	cfg    *Config
	logger *slog.Logger
	m      *metrics
	tracer trace.Tracer

	conn *websocket.Conn
	root func() glint.Descriptor

	loop *glint.Loop
	host *remote.Host
	rt   *glint.Runtime

	send       chan []byte
	writerDone chan struct{}
	cancel     context.CancelFunc
	closeOnce  sync.Once
}

func newSession(conn *websocket.Conn, root func() glint.Descriptor, cfg *Config, logger *slog.Logger, m *metrics, tracer trace.Tracer) *Session {
	id := uuid.NewString()
	s := &Session{
		ID:         id,
		cfg:        cfg,
		logger:     logger.With("session", id),
		m:          m,
		tracer:     tracer,
		conn:       conn,
		root:       root,
		loop:       glint.NewLoop(cfg.FrameInterval),
		host:       remote.NewHost(),
		send:       make(chan []byte, cfg.SendQueueSize),
		writerDone: make(chan struct{}),
	}
	s.rt = glint.New(s.host, glint.WithDispatcher(&sessionDispatcher{s: s}))
	return s
}

// sessionDispatcher routes scheduler work onto the session's loop, guards
// each job against panics, and flushes the patch buffer after jobs that
// mutate the tree.
type sessionDispatcher struct {
	s *Session
}

func (d *sessionDispatcher) Post(fn func())      { d.s.loop.Post(d.s.guarded(fn)) }
func (d *sessionDispatcher) PostFrame(fn func()) { d.s.loop.PostFrame(d.s.guarded(fn)) }

// guarded wraps a loop job: run it, flush resulting patches, and turn a
// component or host panic into a logged error frame plus session close
// instead of taking the process down.
func (s *Session) guarded(fn func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("session job panicked", "panic", r)
				s.sendError(protocol.ErrCodeInternal, "internal error")
				s.Close()
			}
		}()
		fn()
		s.flush()
	}
}

// run drives the session until the connection drops or ctx is cancelled.
func (s *Session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	defer func() {
		cancel()
		// Let the write pump drain before the caller closes the conn.
		<-s.writerDone
	}()

	go s.loop.Run(ctx)
	go s.writePump(ctx)

	// Hello goes out before any patches so the client knows its id.
	s.enqueue(protocol.NewFrame(protocol.FrameHello, protocol.EncodeHello(&protocol.Hello{
		Version:   protocol.CurrentVersion,
		SessionID: s.ID,
	})).Encode())

	s.loop.Post(s.guarded(func() {
		s.rt.Mount(s.root(), s.host.Root())
	}))

	s.readPump()
}

// Close tears the session down. Safe to call from any goroutine, more
// than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.conn.Close()
	})
}

// flush drains the host's patch buffer into one frame. Runs on the loop.
func (s *Session) flush() {
	b := s.host.TakeBatch()
	if b == nil {
		return
	}
	_, span := s.tracer.Start(context.Background(), "glint.flush",
		trace.WithAttributes(
			attribute.String("session.id", s.ID),
			attribute.Int64("batch.seq", int64(b.Seq)),
			attribute.Int("batch.patches", len(b.Patches)),
		))
	// Large batches span several frames; the client reassembles on the
	// continuation flag.
	payload := protocol.EncodeBatch(b)
	for _, f := range protocol.SplitFrames(protocol.FramePatches, payload) {
		s.enqueue(f.Encode())
	}
	s.m.patchesSent.Add(float64(len(b.Patches)))
	s.m.batchesSent.Inc()
	span.End()
}

// enqueue hands a frame to the write pump. A full queue means the client
// stopped reading; the session is closed rather than blocking the loop.
func (s *Session) enqueue(data []byte) {
	select {
	case s.send <- data:
	default:
		s.logger.Warn("send queue full, closing session")
		s.m.wsErrors.WithLabelValues("send_queue_full").Inc()
		s.Close()
	}
}

func (s *Session) sendError(code uint16, msg string) {
	payload := protocol.EncodeError(&protocol.ErrorInfo{Code: code, Message: msg})
	s.enqueue(protocol.NewFrame(protocol.FrameError, payload).Encode())
}

func (s *Session) readPump() {
	s.conn.SetReadLimit(s.cfg.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("read failed", "error", err)
				s.m.wsErrors.WithLabelValues("read").Inc()
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))

		frame, err := protocol.DecodeFrame(data)
		if err != nil {
			s.logger.Warn("bad frame", "error", err)
			s.m.wsErrors.WithLabelValues("bad_frame").Inc()
			s.sendError(protocol.ErrCodeBadFrame, "malformed frame")
			return
		}

		switch frame.Type {
		case protocol.FrameHello:
			hello, err := protocol.DecodeHello(frame.Payload)
			if err != nil {
				s.logger.Warn("bad hello payload", "error", err)
				s.m.wsErrors.WithLabelValues("bad_frame").Inc()
				s.sendError(protocol.ErrCodeBadFrame, "malformed hello")
				return
			}
			if hello.Version != protocol.CurrentVersion {
				s.logger.Warn("protocol version mismatch", "client", hello.Version)
				s.sendError(protocol.ErrCodeVersion, "unsupported protocol version")
				return
			}
		case protocol.FrameEvent:
			ev, err := protocol.DecodeEvent(frame.Payload)
			if err != nil {
				s.logger.Warn("bad event payload", "error", err)
				s.m.wsErrors.WithLabelValues("bad_frame").Inc()
				s.sendError(protocol.ErrCodeBadFrame, "malformed event")
				return
			}
			s.loop.Post(s.guarded(func() {
				s.dispatch(ev)
			}))
		case protocol.FramePing:
			s.enqueue(protocol.NewFrame(protocol.FramePong, nil).Encode())
		case protocol.FramePong:
			// gorilla handles control-level pongs; protocol-level ones
			// need no action either
		default:
			s.logger.Warn("unexpected frame type", "type", frame.Type.String())
		}
	}
}

// dispatch runs one client event on the loop, traced and timed.
func (s *Session) dispatch(ev *protocol.Event) {
	start := time.Now()
	_, span := s.tracer.Start(context.Background(), "glint.event",
		trace.WithAttributes(
			attribute.String("session.id", s.ID),
			attribute.Int64("event.seq", int64(ev.Seq)),
			attribute.Int64("handler.id", int64(ev.Handler)),
		))
	defer span.End()

	err := s.host.Dispatch(ev.Handler, ev.Detail)
	s.m.eventDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		// Usually an event racing a re-render that dropped the handler.
		// The client learns so it can stop retrying; the session stays up.
		s.logger.Debug("event dropped", "handler", ev.Handler, "error", err)
		s.sendError(protocol.ErrCodeUnknownHandler, "unknown handler")
		span.SetStatus(codes.Error, err.Error())
		s.m.eventsTotal.WithLabelValues("dropped").Inc()
		return
	}
	span.SetStatus(codes.Ok, "")
	s.m.eventsTotal.WithLabelValues("ok").Inc()
}

func (s *Session) writePump(ctx context.Context) {
	defer close(s.writerDone)
	ticker := time.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				s.m.wsErrors.WithLabelValues("write").Inc()
				s.Close()
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.m.wsErrors.WithLabelValues("write").Inc()
				s.Close()
				return
			}
		case <-ctx.Done():
			// Deliver anything queued before the cancel, error frames
			// in particular, then say goodbye.
			for {
				select {
				case data := <-s.send:
					s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
					s.conn.WriteMessage(websocket.BinaryMessage, data)
					continue
				default:
				}
				break
			}
			s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
