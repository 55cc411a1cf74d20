package face

// AppFace is the in-process face every application registration goes
// through: Send hands the encoded packet straight to a callback instead
// of a transport, and an application drives Receive itself to inject
// Interests/Data into the forwarder.
type AppFace struct {
	Base
	onSend func(pkt []byte) error
}

// NewAppFace returns an AppFace that calls onSend whenever the forwarder
// writes to it (e.g. to deliver a satisfying Data back to the app).
func NewAppFace(onSend func(pkt []byte) error) *AppFace {
	return &AppFace{Base: NewBase(TypeApp), onSend: onSend}
}

func (f *AppFace) Up() error {
	f.SetState(StateUp)
	return nil
}

func (f *AppFace) Down() error {
	f.SetState(StateDown)
	return nil
}

func (f *AppFace) Send(pkt []byte) error {
	if f.State() == StateDestroyed {
		return ErrDestroyed()
	}
	if f.onSend == nil {
		return nil
	}
	return f.onSend(pkt)
}

func (f *AppFace) Destroy() error {
	f.SetState(StateDestroyed)
	return nil
}
