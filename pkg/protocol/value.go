package protocol

import (
	"errors"
	"fmt"
	"strconv"
)

// ValueKind tags a Value's wire representation.
type ValueKind uint8

const (
	ValueNull   ValueKind = 0x00
	ValueString ValueKind = 0x01
	ValueBool   ValueKind = 0x02
	ValueInt    ValueKind = 0x03
	ValueFloat  ValueKind = 0x04
)

// ErrUnknownValueKind is returned for a kind byte this build does not know.
var ErrUnknownValueKind = errors.New("protocol: unknown value kind")

// Value is a typed property value. Only the field matching Kind is
// meaningful.
type Value struct {
	Kind  ValueKind
	Str   string
	Bool  bool
	Int   int64
	Float float64
}

// Null returns the null value.
func Null() Value { return Value{Kind: ValueNull} }

// String wraps a string value.
func String(s string) Value { return Value{Kind: ValueString, Str: s} }

// Bool wraps a boolean value.
func Bool(b bool) Value { return Value{Kind: ValueBool, Bool: b} }

// Int wraps an integer value.
func Int(v int64) Value { return Value{Kind: ValueInt, Int: v} }

// Float wraps a floating point value.
func Float(v float64) Value { return Value{Kind: ValueFloat, Float: v} }

// Text renders the value the way a client would print it into an attribute.
func (v Value) Text() string {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	default:
		return ""
	}
}

func (v Value) encode(e *Encoder) {
	e.WriteByte(byte(v.Kind))
	switch v.Kind {
	case ValueString:
		e.WriteString(v.Str)
	case ValueBool:
		e.WriteBool(v.Bool)
	case ValueInt:
		e.WriteSvarint(v.Int)
	case ValueFloat:
		e.WriteFloat64(v.Float)
	}
}

func (v *Value) decode(d *Decoder) error {
	kind, err := d.ReadByte()
	if err != nil {
		return err
	}
	*v = Value{Kind: ValueKind(kind)}
	switch v.Kind {
	case ValueNull:
	case ValueString:
		v.Str, err = d.ReadString()
	case ValueBool:
		v.Bool, err = d.ReadBool()
	case ValueInt:
		v.Int, err = d.ReadSvarint()
	case ValueFloat:
		v.Float, err = d.ReadFloat64()
	default:
		return ErrUnknownValueKind
	}
	return err
}

// FromAny converts a runtime property value to a wire value. Unsupported
// types fall back to their string form via strconv rules, which keeps the
// client rendering something sensible.
func FromAny(val any) Value {
	switch x := val.(type) {
	case nil:
		return Null()
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Int(int64(x))
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	default:
		return String(fmt.Sprintf("%v", val))
	}
}
