package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/glint-ui/glint/pkg/el"
	"github.com/glint-ui/glint/pkg/glint"
	"github.com/glint-ui/glint/pkg/protocol"
)

func counterRoot() glint.Descriptor {
	comp := func(rc *glint.Ctx, _ glint.Props) glint.Descriptor {
		count, set := glint.UseState(rc, 0)
		return el.Fragment(
			el.Button(el.OnClick(func() { set.Update(func(v int) int { return v + 1 }) }), "+"),
			el.Span(el.Textf("%d", count)),
		)
	}
	return glint.Component(comp, nil)
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv := New(counterRoot, nil, WithRegistry(prometheus.NewRegistry()))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readWire(t *testing.T, conn *websocket.Conn) *protocol.Frame {
	t.Helper()
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	f, err := protocol.DecodeFrame(data)
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return f
}

func readBatch(t *testing.T, conn *websocket.Conn) *protocol.Batch {
	t.Helper()
	b, _ := readSplitBatch(t, conn)
	return b
}

// readSplitBatch collects patches frames until one without the
// continuation flag arrives, then decodes the reassembled batch. Also
// reports how many frames carried it.
func readSplitBatch(t *testing.T, conn *websocket.Conn) (*protocol.Batch, int) {
	t.Helper()
	var frames []*protocol.Frame
	for {
		f := readWire(t, conn)
		if f.Type != protocol.FramePatches {
			t.Fatalf("frame type = %v, want Patches", f.Type)
		}
		frames = append(frames, f)
		if !f.Flags.Has(protocol.FlagContinued) {
			break
		}
	}
	payload, err := protocol.JoinFrames(frames)
	if err != nil {
		t.Fatalf("join frames: %v", err)
	}
	b, err := protocol.DecodeBatch(payload)
	if err != nil {
		t.Fatalf("decode batch: %v", err)
	}
	return b, len(frames)
}

func TestSessionHelloAndMountBatch(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dialWS(t, ts)

	hello := readWire(t, conn)
	if hello.Type != protocol.FrameHello {
		t.Fatalf("first frame = %v, want Hello", hello.Type)
	}
	h, err := protocol.DecodeHello(hello.Payload)
	if err != nil {
		t.Fatalf("decode hello: %v", err)
	}
	if h.Version != protocol.CurrentVersion || h.SessionID == "" {
		t.Errorf("hello = %+v", h)
	}

	mount := readBatch(t, conn)
	var elements, handlers int
	for _, p := range mount.Patches {
		switch p.Op {
		case protocol.OpCreateElement:
			elements++
		case protocol.OpSetHandler:
			handlers++
		}
	}
	if elements != 2 || handlers != 1 {
		t.Errorf("mount batch has %d elements, %d handlers; want 2, 1", elements, handlers)
	}
}

func TestEventRoundTripOverWebSocket(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dialWS(t, ts)

	readWire(t, conn) // hello
	mount := readBatch(t, conn)

	var handler uint64
	for _, p := range mount.Patches {
		if p.Op == protocol.OpSetHandler {
			handler = p.With
		}
	}
	if handler == 0 {
		t.Fatal("no handler in mount batch")
	}

	click := protocol.NewFrame(protocol.FrameEvent, protocol.EncodeEvent(&protocol.Event{
		Seq:     1,
		Handler: handler,
	}))
	if err := conn.WriteMessage(websocket.BinaryMessage, click.Encode()); err != nil {
		t.Fatalf("write event: %v", err)
	}

	update := readBatch(t, conn)
	var setText *protocol.Patch
	for i, p := range update.Patches {
		if p.Op == protocol.OpSetText {
			setText = &update.Patches[i]
		}
		if p.Op == protocol.OpCreateElement || p.Op == protocol.OpCreateText {
			t.Errorf("unexpected creation on update: %+v", p)
		}
	}
	if setText == nil || setText.Text != "1" {
		t.Errorf("update batch = %+v, want SetText 1", update.Patches)
	}
}

func TestMalformedFrameGetsErrorAndClose(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dialWS(t, ts)

	readWire(t, conn) // hello
	readBatch(t, conn)

	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{0xFF}); err != nil {
		t.Fatalf("write garbage: %v", err)
	}

	f := readWire(t, conn)
	if f.Type != protocol.FrameError {
		t.Fatalf("frame type = %v, want Error", f.Type)
	}
	ei, err := protocol.DecodeError(f.Payload)
	if err != nil {
		t.Fatalf("decode error frame: %v", err)
	}
	if ei.Code != protocol.ErrCodeBadFrame {
		t.Errorf("error code = %d, want %d", ei.Code, protocol.ErrCodeBadFrame)
	}
}

func TestProtocolPingGetsPong(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dialWS(t, ts)

	readWire(t, conn) // hello
	readBatch(t, conn)

	ping := protocol.NewFrame(protocol.FramePing, nil)
	if err := conn.WriteMessage(websocket.BinaryMessage, ping.Encode()); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	f := readWire(t, conn)
	if f.Type != protocol.FramePong {
		t.Errorf("frame type = %v, want Pong", f.Type)
	}
}

func TestSessionCountTracksConnections(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dialWS(t, ts)
	readWire(t, conn) // hello

	if n := srv.SessionCount(); n != 1 {
		t.Errorf("SessionCount = %d, want 1", n)
	}

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	deadline := time.Now().Add(3 * time.Second)
	for srv.SessionCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("SessionCount = %d after close", srv.SessionCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHealthEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if strings.TrimSpace(string(body)) != "ok" {
		t.Errorf("body = %q", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dialWS(t, ts)
	readWire(t, conn) // hello
	readBatch(t, conn)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "glint_active_sessions 1") {
		t.Errorf("metrics missing active session gauge:\n%s", body)
	}
	if !strings.Contains(string(body), "glint_patch_batches_sent_total") {
		t.Errorf("metrics missing batch counter")
	}
}

func TestConfigDefaultsFillIn(t *testing.T) {
	cfg := (&Config{Address: ":9999"}).withDefaults()
	if cfg.Address != ":9999" {
		t.Errorf("Address = %q", cfg.Address)
	}
	if cfg.ReadTimeout != 60*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.ReadTimeout)
	}
	if cfg.MaxMessageSize != 64*1024 {
		t.Errorf("MaxMessageSize = %d", cfg.MaxMessageSize)
	}
	if (*Config)(nil).withDefaults().Address != ":8080" {
		t.Error("nil config did not default")
	}
}

func TestSameHostOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Host = "example.com"
	if !sameHostOrigin(req) {
		t.Error("no origin header should pass")
	}
	req.Header.Set("Origin", "http://example.com")
	if !sameHostOrigin(req) {
		t.Error("same host should pass")
	}
	req.Header.Set("Origin", "http://evil.com")
	if sameHostOrigin(req) {
		t.Error("cross origin should fail")
	}
}

func TestLargeMountBatchSplitsAcrossFrames(t *testing.T) {
	wide := func(rc *glint.Ctx, _ glint.Props) glint.Descriptor {
		return el.Ul(el.Repeat(3000, func(i int) el.Descriptor {
			return el.Li(el.Textf("item-%04d-%s", i, strings.Repeat("x", 24)))
		}))
	}
	srv := New(func() glint.Descriptor { return glint.Component(wide, nil) },
		nil, WithRegistry(prometheus.NewRegistry()))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	conn := dialWS(t, ts)

	readWire(t, conn) // hello
	mount, frames := readSplitBatch(t, conn)
	if frames < 2 {
		t.Fatalf("mount batch arrived in %d frame(s), want a split", frames)
	}
	var texts int
	for _, p := range mount.Patches {
		if p.Op == protocol.OpCreateText {
			texts++
		}
	}
	if texts != 3000 {
		t.Errorf("create-text patches = %d, want 3000", texts)
	}
}

func TestUnknownHandlerEventGetsError(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dialWS(t, ts)

	readWire(t, conn) // hello
	readBatch(t, conn)

	bogus := protocol.NewFrame(protocol.FrameEvent, protocol.EncodeEvent(&protocol.Event{
		Seq:     1,
		Handler: 9999,
	}))
	if err := conn.WriteMessage(websocket.BinaryMessage, bogus.Encode()); err != nil {
		t.Fatalf("write event: %v", err)
	}

	f := readWire(t, conn)
	if f.Type != protocol.FrameError {
		t.Fatalf("frame type = %v, want Error", f.Type)
	}
	ei, err := protocol.DecodeError(f.Payload)
	if err != nil {
		t.Fatalf("decode error frame: %v", err)
	}
	if ei.Code != protocol.ErrCodeUnknownHandler {
		t.Errorf("error code = %d, want %d", ei.Code, protocol.ErrCodeUnknownHandler)
	}

	// The session survives a dropped event.
	ping := protocol.NewFrame(protocol.FramePing, nil)
	if err := conn.WriteMessage(websocket.BinaryMessage, ping.Encode()); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if f := readWire(t, conn); f.Type != protocol.FramePong {
		t.Errorf("frame type = %v, want Pong", f.Type)
	}
}

func TestClientHelloVersionChecked(t *testing.T) {
	_, ts := newTestServer(t)

	conn := dialWS(t, ts)
	readWire(t, conn) // hello
	readBatch(t, conn)
	ok := protocol.NewFrame(protocol.FrameHello, protocol.EncodeHello(&protocol.Hello{
		Version: protocol.CurrentVersion,
	}))
	if err := conn.WriteMessage(websocket.BinaryMessage, ok.Encode()); err != nil {
		t.Fatalf("write hello: %v", err)
	}
	ping := protocol.NewFrame(protocol.FramePing, nil)
	if err := conn.WriteMessage(websocket.BinaryMessage, ping.Encode()); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if f := readWire(t, conn); f.Type != protocol.FramePong {
		t.Fatalf("matching version rejected, frame = %v", f.Type)
	}

	conn2 := dialWS(t, ts)
	readWire(t, conn2) // hello
	readBatch(t, conn2)
	stale := protocol.NewFrame(protocol.FrameHello, protocol.EncodeHello(&protocol.Hello{
		Version: 99,
	}))
	if err := conn2.WriteMessage(websocket.BinaryMessage, stale.Encode()); err != nil {
		t.Fatalf("write hello: %v", err)
	}
	f := readWire(t, conn2)
	if f.Type != protocol.FrameError {
		t.Fatalf("frame type = %v, want Error", f.Type)
	}
	ei, err := protocol.DecodeError(f.Payload)
	if err != nil {
		t.Fatalf("decode error frame: %v", err)
	}
	if ei.Code != protocol.ErrCodeVersion {
		t.Errorf("error code = %d, want %d", ei.Code, protocol.ErrCodeVersion)
	}
}
