package dedup

import (
	"strings"
	"unicode/utf8"
)

// resendLengthFloor keeps short answers out of resend detection: substring
// checks on a few dozen characters match by coincidence far too often.
const resendLengthFloor = 100

// IsFullResend reports whether a standalone fragment is the upstream
// re-sending the entire answer so far, possibly with more appended. True
// only when the accumulated text is long enough to make a substring match
// meaningful and appears verbatim inside the fragment.
func IsFullResend(fragment, accumulated string) bool {
	if utf8.RuneCountInString(accumulated) <= resendLengthFloor {
		return false
	}
	return strings.Contains(fragment, accumulated)
}
