package forms

// State tracks an entity through a save attempt. Only validated entities may
// be persisted.
type State int

const (
	StateUnvalidated State = iota
	StateValidated
	StatePersisted
)

func (s State) String() string {
	switch s {
	case StateValidated:
		return "validated"
	case StatePersisted:
		return "persisted"
	default:
		return "unvalidated"
	}
}
