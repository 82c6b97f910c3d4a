package recovery

type State int

const (
	StateRequested State = iota
	StateTokenValidated
	StateKeyParsed
	StateOwnershipVerified
	StateTokenConsumed
	StateKeyBound
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateRequested:
		return "Requested"
	case StateTokenValidated:
		return "TokenValidated"
	case StateKeyParsed:
		return "KeyParsed"
	case StateOwnershipVerified:
		return "OwnershipVerified"
	case StateTokenConsumed:
		return "TokenConsumed"
	case StateKeyBound:
		return "KeyBound"
	case StateRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

func (s State) Terminal() bool {
	return s == StateKeyBound || s == StateRejected
}
