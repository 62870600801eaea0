package instancepool

// Placer is an instance that can be moved to a placement after it is obtained
type Placer[P any] interface {
	Place(placement P)
}

// Attacher is an instance that can be attached to a parent container after it is obtained
type Attacher[C any] interface {
	AttachTo(parent C)
}

// ObtainPlaced obtains an instance and applies placement to it
func ObtainPlaced[T Placer[P], P any](p Recycler[T], placement P) (T, error) {
	inst, err := p.Obtain()
	if err != nil {
		return inst, err
	}

	inst.Place(placement)
	return inst, nil
}

// ObtainAttached obtains an instance and attaches it to parent
func ObtainAttached[T Attacher[C], C any](p Recycler[T], parent C) (T, error) {
	inst, err := p.Obtain()
	if err != nil {
		return inst, err
	}

	inst.AttachTo(parent)
	return inst, nil
}
