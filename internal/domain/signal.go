package domain

// Signal is the decision produced by the signal policy for one candle.
type Signal int

const (
	SignalNone Signal = iota
	SignalEnterLong
	SignalEnterShort
	SignalExitLong
	SignalExitShort
)

// String returns the string representation of the signal.
func (s Signal) String() string {
	switch s {
	case SignalEnterLong:
		return "enter_long"
	case SignalEnterShort:
		return "enter_short"
	case SignalExitLong:
		return "exit_long"
	case SignalExitShort:
		return "exit_short"
	default:
		return "none"
	}
}

// IsEntry reports whether the signal opens a position.
func (s Signal) IsEntry() bool {
	return s == SignalEnterLong || s == SignalEnterShort
}

// IsExit reports whether the signal closes a position.
func (s Signal) IsExit() bool {
	return s == SignalExitLong || s == SignalExitShort
}
