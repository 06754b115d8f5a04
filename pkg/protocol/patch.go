package protocol

import "errors"

// PatchOp identifies one host-tree mutation.
type PatchOp uint8

const (
	OpCreateElement PatchOp = 0x01 // node, tag
	OpCreateText    PatchOp = 0x02 // node, text
	OpCreateMarker  PatchOp = 0x03 // node
	OpSetText       PatchOp = 0x04 // node, text
	OpSetProp       PatchOp = 0x05 // node, key, value
	OpClearProp     PatchOp = 0x06 // node, key
	OpSetHandler    PatchOp = 0x07 // node, key (event), handler
	OpClearHandler  PatchOp = 0x08 // node, key (event)
	OpInsertBefore  PatchOp = 0x09 // parent, node, ref (0 appends)
	OpRemove        PatchOp = 0x0A // node
	OpReplace       PatchOp = 0x0B // node, with
)

// String returns the operation name.
func (op PatchOp) String() string {
	switch op {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpCreateMarker:
		return "CreateMarker"
	case OpSetText:
		return "SetText"
	case OpSetProp:
		return "SetProp"
	case OpClearProp:
		return "ClearProp"
	case OpSetHandler:
		return "SetHandler"
	case OpClearHandler:
		return "ClearHandler"
	case OpInsertBefore:
		return "InsertBefore"
	case OpRemove:
		return "Remove"
	case OpReplace:
		return "Replace"
	default:
		return "Unknown"
	}
}

// ErrUnknownPatchOp is returned when a batch contains an op this build does
// not understand. Ops carry variable payloads, so an unknown op cannot be
// skipped.
var ErrUnknownPatchOp = errors.New("protocol: unknown patch op")

// Patch is a single host mutation. Node ids are assigned by the server and
// start at 1; id 0 means "none" (used by Ref to append).
type Patch struct {
	Op     PatchOp
	Node   uint64
	Key    string // tag for CreateElement, prop or event name otherwise
	Text   string // CreateText, SetText
	Value  Value  // SetProp
	Parent uint64 // InsertBefore
	Ref    uint64 // InsertBefore anchor, 0 appends
	With   uint64 // replacement node for Replace, handler id for SetHandler
}

// Batch is an ordered run of patches produced by one scheduler drain.
// Seq increases by one per batch on a connection.
type Batch struct {
	Seq     uint64
	Patches []Patch
}

// EncodeBatch encodes a batch to fresh bytes.
func EncodeBatch(b *Batch) []byte {
	e := NewEncoder()
	EncodeBatchTo(e, b)
	return e.Bytes()
}

// EncodeBatchTo encodes a batch using the provided encoder.
func EncodeBatchTo(e *Encoder, b *Batch) {
	e.WriteUvarint(b.Seq)
	e.WriteUvarint(uint64(len(b.Patches)))
	for i := range b.Patches {
		encodePatch(e, &b.Patches[i])
	}
}

func encodePatch(e *Encoder, p *Patch) {
	e.WriteByte(byte(p.Op))
	e.WriteUvarint(p.Node)

	switch p.Op {
	case OpCreateElement:
		e.WriteString(p.Key)
	case OpCreateText, OpSetText:
		e.WriteString(p.Text)
	case OpCreateMarker, OpRemove:
		// id only
	case OpSetProp:
		e.WriteString(p.Key)
		p.Value.encode(e)
	case OpClearProp, OpClearHandler:
		e.WriteString(p.Key)
	case OpSetHandler:
		e.WriteString(p.Key)
		e.WriteUvarint(p.With)
	case OpInsertBefore:
		e.WriteUvarint(p.Parent)
		e.WriteUvarint(p.Ref)
	case OpReplace:
		e.WriteUvarint(p.With)
	}
}

// DecodeBatch decodes a batch from bytes.
func DecodeBatch(data []byte) (*Batch, error) {
	return DecodeBatchFrom(NewDecoder(data))
}

// DecodeBatchFrom decodes a batch from a decoder.
func DecodeBatchFrom(d *Decoder) (*Batch, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	if count > MaxPatchCount {
		return nil, ErrBatchTooLarge
	}
	if count > uint64(d.Remaining()) {
		// Every patch is at least one byte of op.
		return nil, ErrBatchTooLarge
	}
	patches := make([]Patch, count)
	for i := range patches {
		if err := decodePatch(d, &patches[i]); err != nil {
			return nil, err
		}
	}
	return &Batch{Seq: seq, Patches: patches}, nil
}

func decodePatch(d *Decoder, p *Patch) error {
	opByte, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = PatchOp(opByte)

	p.Node, err = d.ReadUvarint()
	if err != nil {
		return err
	}

	switch p.Op {
	case OpCreateElement:
		p.Key, err = d.ReadString()
	case OpCreateText, OpSetText:
		p.Text, err = d.ReadString()
	case OpCreateMarker, OpRemove:
		// id only
	case OpSetProp:
		p.Key, err = d.ReadString()
		if err != nil {
			return err
		}
		err = p.Value.decode(d)
	case OpClearProp, OpClearHandler:
		p.Key, err = d.ReadString()
	case OpSetHandler:
		p.Key, err = d.ReadString()
		if err != nil {
			return err
		}
		p.With, err = d.ReadUvarint()
	case OpInsertBefore:
		p.Parent, err = d.ReadUvarint()
		if err != nil {
			return err
		}
		p.Ref, err = d.ReadUvarint()
	case OpReplace:
		p.With, err = d.ReadUvarint()
	default:
		return ErrUnknownPatchOp
	}
	return err
}

// NewCreateElement builds a CreateElement patch.
func NewCreateElement(node uint64, tag string) Patch {
	return Patch{Op: OpCreateElement, Node: node, Key: tag}
}

// NewCreateText builds a CreateText patch.
func NewCreateText(node uint64, text string) Patch {
	return Patch{Op: OpCreateText, Node: node, Text: text}
}

// NewCreateMarker builds a CreateMarker patch.
func NewCreateMarker(node uint64) Patch {
	return Patch{Op: OpCreateMarker, Node: node}
}

// NewSetText builds a SetText patch.
func NewSetText(node uint64, text string) Patch {
	return Patch{Op: OpSetText, Node: node, Text: text}
}

// NewSetProp builds a SetProp patch.
func NewSetProp(node uint64, key string, v Value) Patch {
	return Patch{Op: OpSetProp, Node: node, Key: key, Value: v}
}

// NewClearProp builds a ClearProp patch.
func NewClearProp(node uint64, key string) Patch {
	return Patch{Op: OpClearProp, Node: node, Key: key}
}

// NewSetHandler builds a SetHandler patch binding event on node to a
// server-side handler id.
func NewSetHandler(node uint64, event string, handler uint64) Patch {
	return Patch{Op: OpSetHandler, Node: node, Key: event, With: handler}
}

// NewClearHandler builds a ClearHandler patch.
func NewClearHandler(node uint64, event string) Patch {
	return Patch{Op: OpClearHandler, Node: node, Key: event}
}

// NewInsertBefore builds an InsertBefore patch. Ref 0 appends.
func NewInsertBefore(parent, node, ref uint64) Patch {
	return Patch{Op: OpInsertBefore, Node: node, Parent: parent, Ref: ref}
}

// NewRemove builds a Remove patch. Removal detaches the whole subtree.
func NewRemove(node uint64) Patch {
	return Patch{Op: OpRemove, Node: node}
}

// NewReplace builds a Replace patch swapping node for with in place.
func NewReplace(node, with uint64) Patch {
	return Patch{Op: OpReplace, Node: node, With: with}
}
