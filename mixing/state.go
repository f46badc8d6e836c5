// SPDX-License-Identifier: EPL-2.0

package mixing

// State is the phase a mix operation is in.
type State int

const (
	Idle State = iota
	Validating
	Extracting
	Mixing
	Writing
	Completed
	Cancelled
	Failed
)

var stateNames = [...]string{
	Idle:       "idle",
	Validating: "validating",
	Extracting: "extracting",
	Mixing:     "mixing",
	Writing:    "writing",
	Completed:  "completed",
	Cancelled:  "cancelled",
	Failed:     "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether s ends an operation.
func (s State) Terminal() bool {
	return s == Completed || s == Cancelled || s == Failed
}
