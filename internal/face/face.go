// Package face defines the uniform Face contract every transport (and the
// in-process application face) implements, plus the Face Table registry.
package face

import "github.com/ndn-lite/ndnlite-go/internal/ndnerr"

// State is a face's lifecycle state.
type State int

const (
	StateDown State = iota
	StateUp
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUp:
		return "up"
	case StateDestroyed:
		return "destroyed"
	default:
		return "down"
	}
}

// Type distinguishes in-process application faces from network-transport
// faces; reserved for the forwarder's bookkeeping, not behavior.
type Type int

const (
	TypeUndefined Type = iota
	TypeApp
	TypeNet
)

func (t Type) String() string {
	switch t {
	case TypeApp:
		return "app"
	case TypeNet:
		return "net"
	default:
		return "undefined"
	}
}

// Receiver is implemented by the forwarder: every face delivers incoming
// bytes by calling Receive.
type Receiver interface {
	Receive(f Face, pkt []byte)
}

// Face is the uniform contract every transport and the in-process
// application face implements: up/down/send/destroy, plus identity.
type Face interface {
	ID() uint16
	SetID(id uint16)
	Type() Type
	State() State
	Up() error
	Down() error
	Send(pkt []byte) error
	Destroy() error
}

// Base provides the common state bookkeeping (id/type/state) that
// concrete faces embed, matching the C source's single-inheritance
// "ndn_face_intf must be the first member" convention.
type Base struct {
	id    uint16
	typ   Type
	state State
}

// NewBase returns a Base of the given type, initially down.
func NewBase(typ Type) Base { return Base{typ: typ, state: StateDown} }

func (b *Base) ID() uint16       { return b.id }
func (b *Base) SetID(id uint16)  { b.id = id }
func (b *Base) Type() Type       { return b.typ }
func (b *Base) State() State     { return b.state }
func (b *Base) SetState(s State) { b.state = s }

// Up transitions a face to StateUp if it isn't already, mirroring the
// source's ndn_face_up helper (a no-op if already up).
func Up(f Face) error {
	if f.State() == StateUp {
		return nil
	}
	return f.Up()
}

// Send brings the face up first if needed, then sends.
func Send(f Face, pkt []byte) error {
	if f.State() != StateUp {
		if err := Up(f); err != nil {
			return err
		}
	}
	return f.Send(pkt)
}

var errDestroyed = ndnerr.New(ndnerr.KindInvalidArgument, "face is destroyed")

// ErrDestroyed is returned by operations attempted on a destroyed face.
func ErrDestroyed() error { return errDestroyed }
