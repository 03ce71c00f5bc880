package booking

type State string

const (
	StateCollecting    State = "collecting"
	StateSlotSelecting State = "slot_selecting"
	StateConfirming    State = "confirming"
	StateConfirmed     State = "confirmed"
	StateCancelled     State = "cancelled"
)

func (s State) String() string {
	return string(s)
}

func (s State) IsValid() bool {
	switch s {
	case StateCollecting, StateSlotSelecting, StateConfirming, StateConfirmed, StateCancelled:
		return true
	default:
		return false
	}
}

// Terminal states admit no further transitions: a confirmed session is
// immutable and a cancelled one is discarded.
func (s State) IsTerminal() bool {
	return s == StateConfirmed || s == StateCancelled
}
