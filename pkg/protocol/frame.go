package protocol

import (
	"errors"
	"io"
)

const (
	// FrameHeaderSize is the fixed header length in bytes.
	FrameHeaderSize = 4

	// MaxPayloadSize is the largest payload one frame can carry. Batches
	// larger than this must be split across frames.
	MaxPayloadSize = 65535
)

// FrameType identifies what the payload carries.
type FrameType uint8

const (
	FrameHello   FrameType = 0x00 // session greeting, either direction
	FrameEvent   FrameType = 0x01 // client -> server handler invocation
	FramePatches FrameType = 0x02 // server -> client mutation batch
	FramePing    FrameType = 0x03 // either direction, liveness probe
	FramePong    FrameType = 0x04 // reply to ping
	FrameError   FrameType = 0x05 // error report, fatal codes close the connection
)

// String returns the frame type name.
func (ft FrameType) String() string {
	switch ft {
	case FrameHello:
		return "Hello"
	case FrameEvent:
		return "Event"
	case FramePatches:
		return "Patches"
	case FramePing:
		return "Ping"
	case FramePong:
		return "Pong"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// FrameFlags carry per-frame processing hints.
type FrameFlags uint8

const (
	// FlagContinued marks a patches frame whose batch continues in the
	// next frame.
	FlagContinued FrameFlags = 0x01
)

// Has reports whether flag is set.
func (ff FrameFlags) Has(flag FrameFlags) bool { return ff&flag != 0 }

// Framing errors.
var (
	ErrFrameTooLarge = errors.New("protocol: frame payload too large")
	ErrSplitMismatch = errors.New("protocol: inconsistent continuation frames")
)

// Frame is the outermost wire unit.
//
// Header layout: type (1 byte), flags (1 byte), payload length (2 bytes,
// big-endian), then the payload.
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

// NewFrame builds a frame with no flags.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// Encode returns header plus payload as fresh bytes. The payload must
// fit one frame; larger payloads go through SplitFrames first.
func (f *Frame) Encode() []byte {
	n := len(f.Payload)
	if n > MaxPayloadSize {
		panic("protocol: frame payload exceeds MaxPayloadSize, split it first")
	}
	buf := make([]byte, FrameHeaderSize+n)
	buf[0] = byte(f.Type)
	buf[1] = byte(f.Flags)
	buf[2] = byte(n >> 8)
	buf[3] = byte(n)
	copy(buf[FrameHeaderSize:], f.Payload)
	return buf
}

// DecodeFrame decodes one frame from data. The payload is copied out.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < FrameHeaderSize {
		return nil, io.ErrUnexpectedEOF
	}
	length := int(data[2])<<8 | int(data[3])
	if len(data) < FrameHeaderSize+length {
		return nil, io.ErrUnexpectedEOF
	}
	payload := make([]byte, length)
	copy(payload, data[FrameHeaderSize:FrameHeaderSize+length])
	return &Frame{
		Type:    FrameType(data[0]),
		Flags:   FrameFlags(data[1]),
		Payload: payload,
	}, nil
}

// SplitFrames packs a payload into as many frames as it needs. Every
// frame but the last carries FlagContinued; the receiver concatenates
// payloads until a frame without the flag arrives.
func SplitFrames(ft FrameType, payload []byte) []*Frame {
	if len(payload) <= MaxPayloadSize {
		return []*Frame{NewFrame(ft, payload)}
	}
	frames := make([]*Frame, 0, len(payload)/MaxPayloadSize+1)
	for len(payload) > MaxPayloadSize {
		frames = append(frames, &Frame{Type: ft, Flags: FlagContinued, Payload: payload[:MaxPayloadSize]})
		payload = payload[MaxPayloadSize:]
	}
	return append(frames, &Frame{Type: ft, Payload: payload})
}

// JoinFrames reassembles the payload of a SplitFrames sequence. The
// frames must share one type, arrive in order, and only the last may
// omit FlagContinued.
func JoinFrames(frames []*Frame) ([]byte, error) {
	if len(frames) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	if len(frames) == 1 && !frames[0].Flags.Has(FlagContinued) {
		return frames[0].Payload, nil
	}
	total := 0
	for i, f := range frames {
		if f.Type != frames[0].Type {
			return nil, ErrSplitMismatch
		}
		last := i == len(frames)-1
		if f.Flags.Has(FlagContinued) == last {
			return nil, ErrSplitMismatch
		}
		total += len(f.Payload)
	}
	payload := make([]byte, 0, total)
	for _, f := range frames {
		payload = append(payload, f.Payload...)
	}
	return payload, nil
}

// ReadFrame reads one complete frame from r.
func ReadFrame(r io.Reader) (*Frame, error) {
	header := make([]byte, FrameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	length := int(header[2])<<8 | int(header[3])
	if length > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}
	return &Frame{
		Type:    FrameType(header[0]),
		Flags:   FrameFlags(header[1]),
		Payload: payload,
	}, nil
}

// WriteFrame writes one complete frame to w.
func WriteFrame(w io.Writer, f *Frame) error {
	if len(f.Payload) > MaxPayloadSize {
		return ErrFrameTooLarge
	}
	_, err := w.Write(f.Encode())
	return err
}
