package structenc

import (
	"errors"

	"github.com/yusuke-matsunaga/druid-sub002/assign"
)

// State is StructEngine's lazy-update state machine.
type State uint8

const (
	Stable State = iota
	Dirty
	Updating
)

// ErrNotRegistered is returned when a literal is requested for a node/time
// that has not been encoded yet — StructEngine fails hard rather than
// silently allocating on read, per spec §4.4.
var ErrNotRegistered = errors.New("structenc: assign is not registered")

// ErrNoJustifier is returned by Justify when no Justifier has been attached.
var ErrNoJustifier = errors.New("structenc: no justifier attached")

// SubEnc is a sub-encoder that contributes CNF once StructEngine's
// structural variables exist. Init is called exactly once, before the
// first MakeCNF call; MakeCNF is called once per Update() while the
// sub-encoder remains registered.
type SubEnc interface {
	Init(se *StructEngine)
	MakeCNF(se *StructEngine)
}

// Justifier is the interface StructEngine.Justify delegates to; defined
// here (the consumer side) so package justify can implement it against
// *StructEngine without an import cycle.
type Justifier interface {
	Justify(se *StructEngine, a assign.AssignList) (assign.AssignList, error)
}
