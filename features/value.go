package features

import "strconv"

// Value is the classification a rule assigns to a URL.
//
// -1 means indeterminate or suspicious, 0 ambiguous and 1 benign. The same -1
// is used whenever a rule fails, so consumers see one sentinel for both.
type Value int

const (
	Phishing   Value = -1
	Suspicious Value = 0
	Legitimate Value = 1

	// Fallback is recorded for every rule that fails, times out or is skipped.
	Fallback = Phishing
)

func (v Value) String() string { return strconv.Itoa(int(v)) }
