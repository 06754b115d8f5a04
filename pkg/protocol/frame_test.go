package protocol

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	in := NewFrame(FramePatches, []byte{1, 2, 3})
	in.Flags = FlagContinued
	out, err := DecodeFrame(in.Encode())
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if out.Type != FramePatches || !out.Flags.Has(FlagContinued) {
		t.Errorf("header = %v/%v", out.Type, out.Flags)
	}
	if !bytes.Equal(out.Payload, in.Payload) {
		t.Errorf("payload = %v, want %v", out.Payload, in.Payload)
	}
}

func TestFrameEmptyPayload(t *testing.T) {
	out, err := DecodeFrame(NewFrame(FramePing, nil).Encode())
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if out.Type != FramePing || len(out.Payload) != 0 {
		t.Errorf("got %v with %d payload bytes", out.Type, len(out.Payload))
	}
}

func TestFrameTruncated(t *testing.T) {
	data := NewFrame(FrameEvent, []byte("abcdef")).Encode()
	if _, err := DecodeFrame(data[:2]); err != io.ErrUnexpectedEOF {
		t.Errorf("short header err = %v", err)
	}
	if _, err := DecodeFrame(data[:len(data)-1]); err != io.ErrUnexpectedEOF {
		t.Errorf("short payload err = %v", err)
	}
}

func TestReadWriteFrameStream(t *testing.T) {
	var buf bytes.Buffer
	frames := []*Frame{
		NewFrame(FrameHello, EncodeHello(&Hello{Version: CurrentVersion, SessionID: "abc"})),
		NewFrame(FramePatches, EncodeBatch(&Batch{Seq: 1, Patches: []Patch{NewRemove(4)}})),
		NewFrame(FramePong, nil),
	}
	for _, f := range frames {
		if err := WriteFrame(&buf, f); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}
	for i, want := range frames {
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame %d: %v", i, err)
		}
		if got.Type != want.Type || !bytes.Equal(got.Payload, want.Payload) {
			t.Errorf("frame %d = %v (%d bytes), want %v (%d bytes)",
				i, got.Type, len(got.Payload), want.Type, len(want.Payload))
		}
	}
	if _, err := ReadFrame(&buf); err != io.EOF {
		t.Errorf("drained stream err = %v, want EOF", err)
	}
}

func TestWriteFrameOversize(t *testing.T) {
	f := NewFrame(FramePatches, make([]byte, MaxPayloadSize+1))
	if err := WriteFrame(io.Discard, f); err != ErrFrameTooLarge {
		t.Errorf("err = %v, want ErrFrameTooLarge", err)
	}
}

func TestHelloRoundTrip(t *testing.T) {
	in := &Hello{Version: 3, SessionID: "550e8400-e29b-41d4-a716-446655440000"}
	out, err := DecodeHello(EncodeHello(in))
	if err != nil {
		t.Fatalf("DecodeHello: %v", err)
	}
	if *out != *in {
		t.Errorf("hello = %+v, want %+v", out, in)
	}
}

func TestEventRoundTrip(t *testing.T) {
	in := &Event{Seq: 12, Handler: 7, Detail: `{"value":"x"}`}
	out, err := DecodeEvent(EncodeEvent(in))
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if *out != *in {
		t.Errorf("event = %+v, want %+v", out, in)
	}
}

func TestErrorRoundTrip(t *testing.T) {
	in := &ErrorInfo{Code: ErrCodeUnknownHandler, Message: "no such handler"}
	out, err := DecodeError(EncodeError(in))
	if err != nil {
		t.Fatalf("DecodeError: %v", err)
	}
	if *out != *in {
		t.Errorf("error = %+v, want %+v", out, in)
	}
}

func TestSplitFramesSmallPayload(t *testing.T) {
	frames := SplitFrames(FramePatches, []byte{1, 2})
	if len(frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(frames))
	}
	if frames[0].Flags.Has(FlagContinued) {
		t.Error("single frame carries the continuation flag")
	}
}

func TestSplitFramesOversizedPayload(t *testing.T) {
	payload := make([]byte, 2*MaxPayloadSize+100)
	for i := range payload {
		payload[i] = byte(i)
	}

	frames := SplitFrames(FramePatches, payload)
	if len(frames) != 3 {
		t.Fatalf("frames = %d, want 3", len(frames))
	}
	for i, f := range frames {
		wantFlag := i < len(frames)-1
		if f.Flags.Has(FlagContinued) != wantFlag {
			t.Errorf("frame %d continued = %v, want %v", i, !wantFlag, wantFlag)
		}
		decoded, err := DecodeFrame(f.Encode())
		if err != nil {
			t.Fatalf("frame %d DecodeFrame: %v", i, err)
		}
		if !bytes.Equal(decoded.Payload, f.Payload) {
			t.Errorf("frame %d payload corrupted in transit", i)
		}
	}

	joined, err := JoinFrames(frames)
	if err != nil {
		t.Fatalf("JoinFrames: %v", err)
	}
	if !bytes.Equal(joined, payload) {
		t.Error("reassembled payload differs from original")
	}
}

func TestJoinFramesRejectsBrokenSequence(t *testing.T) {
	unterminated := []*Frame{
		{Type: FramePatches, Flags: FlagContinued, Payload: []byte{1}},
	}
	if _, err := JoinFrames(unterminated); err != ErrSplitMismatch {
		t.Errorf("unterminated sequence: err = %v, want ErrSplitMismatch", err)
	}

	mixed := []*Frame{
		{Type: FramePatches, Flags: FlagContinued, Payload: []byte{1}},
		{Type: FrameEvent, Payload: []byte{2}},
	}
	if _, err := JoinFrames(mixed); err != ErrSplitMismatch {
		t.Errorf("mixed types: err = %v, want ErrSplitMismatch", err)
	}
}

func TestEncodePanicsOnOversizedPayload(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Encode accepted a payload over MaxPayloadSize")
		}
	}()
	NewFrame(FramePatches, make([]byte, MaxPayloadSize+1)).Encode()
}

func TestLargeBatchSurvivesFrameSplit(t *testing.T) {
	long := strings.Repeat("x", 1024)
	in := &Batch{Seq: 9}
	for i := 0; i < 80; i++ {
		in.Patches = append(in.Patches, NewSetText(uint64(i+1), long))
	}
	payload := EncodeBatch(in)
	if len(payload) <= MaxPayloadSize {
		t.Fatalf("batch payload = %d bytes, want > %d", len(payload), MaxPayloadSize)
	}

	frames := SplitFrames(FramePatches, payload)
	if len(frames) < 2 {
		t.Fatalf("frames = %d, want at least 2", len(frames))
	}
	received := make([]*Frame, 0, len(frames))
	for i, f := range frames {
		decoded, err := DecodeFrame(f.Encode())
		if err != nil {
			t.Fatalf("frame %d DecodeFrame: %v", i, err)
		}
		received = append(received, decoded)
	}

	joined, err := JoinFrames(received)
	if err != nil {
		t.Fatalf("JoinFrames: %v", err)
	}
	out, err := DecodeBatch(joined)
	if err != nil {
		t.Fatalf("DecodeBatch: %v", err)
	}
	if out.Seq != 9 || len(out.Patches) != 80 {
		t.Fatalf("batch = seq %d with %d patches, want seq 9 with 80", out.Seq, len(out.Patches))
	}
	if out.Patches[79].Text != long {
		t.Error("last patch text corrupted")
	}
}
