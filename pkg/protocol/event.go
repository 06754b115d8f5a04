package protocol

// Hello is the server's first frame on a connection. A client may send
// one back announcing the version it speaks; a mismatch ends the session
// with ErrCodeVersion.
type Hello struct {
	Version   uint16
	SessionID string
}

// CurrentVersion is the wire version this package speaks.
const CurrentVersion = 1

// EncodeHello encodes a hello payload.
func EncodeHello(h *Hello) []byte {
	e := NewEncoder()
	e.WriteUint16(h.Version)
	e.WriteString(h.SessionID)
	return e.Bytes()
}

// DecodeHello decodes a hello payload.
func DecodeHello(data []byte) (*Hello, error) {
	d := NewDecoder(data)
	version, err := d.ReadUint16()
	if err != nil {
		return nil, err
	}
	sid, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	return &Hello{Version: version, SessionID: sid}, nil
}

// Event is a client-side interaction routed to a server handler. Handler
// ids come from SetHandler patches. Detail carries event-specific data
// such as an input's current value; it is empty for plain clicks.
type Event struct {
	Seq     uint64
	Handler uint64
	Detail  string
}

// EncodeEvent encodes an event payload.
func EncodeEvent(ev *Event) []byte {
	e := NewEncoder()
	e.WriteUvarint(ev.Seq)
	e.WriteUvarint(ev.Handler)
	e.WriteString(ev.Detail)
	return e.Bytes()
}

// DecodeEvent decodes an event payload.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	handler, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	detail, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	return &Event{Seq: seq, Handler: handler, Detail: detail}, nil
}

// ErrorInfo is the payload of an error frame. All codes but
// ErrCodeUnknownHandler close the connection after sending.
type ErrorInfo struct {
	Code    uint16
	Message string
}

// Error codes.
const (
	ErrCodeInternal       uint16 = 1 // server-side failure, session torn down
	ErrCodeBadFrame       uint16 = 2 // frame or payload did not decode
	ErrCodeUnknownHandler uint16 = 3 // event named a handler id no longer registered
	ErrCodeVersion        uint16 = 4 // client hello requested an unsupported version
)

// EncodeError encodes an error payload.
func EncodeError(ei *ErrorInfo) []byte {
	e := NewEncoder()
	e.WriteUint16(ei.Code)
	e.WriteString(ei.Message)
	return e.Bytes()
}

// DecodeError decodes an error payload.
func DecodeError(data []byte) (*ErrorInfo, error) {
	d := NewDecoder(data)
	code, err := d.ReadUint16()
	if err != nil {
		return nil, err
	}
	msg, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	return &ErrorInfo{Code: code, Message: msg}, nil
}
