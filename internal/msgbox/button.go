package msgbox

import (
	"errors"
	"fmt"
)

// ButtonCode identifies the button the user selected. The values are the
// MessageBoxW return codes and must not be renumbered. Zero is never a valid
// code.
type ButtonCode int

const (
	IDOK       ButtonCode = 1
	IDCANCEL   ButtonCode = 2
	IDABORT    ButtonCode = 3
	IDRETRY    ButtonCode = 4
	IDIGNORE   ButtonCode = 5
	IDYES      ButtonCode = 6
	IDNO       ButtonCode = 7
	IDTRYAGAIN ButtonCode = 10
	IDCONTINUE ButtonCode = 11
)

var (
	// ErrUnknownButtonCode is returned when looking up a code that is not one
	// of the defined button constants.
	ErrUnknownButtonCode = errors.New("unknown button code")

	// ErrUnexpectedButton is returned by a Checked gateway when the native
	// call reports a button that the requested button set cannot produce.
	ErrUnexpectedButton = errors.New("unexpected button code for button set")
)

// UnknownButtonCodeError carries the code that failed lookup.
type UnknownButtonCodeError struct {
	Code ButtonCode
}

func (e *UnknownButtonCodeError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnknownButtonCode, int(e.Code))
}

func (e *UnknownButtonCodeError) Unwrap() error { return ErrUnknownButtonCode }

var buttonNames = map[ButtonCode]string{
	IDOK:       "OK",
	IDCANCEL:   "Cancel",
	IDABORT:    "Abort",
	IDRETRY:    "Retry",
	IDIGNORE:   "Ignore",
	IDYES:      "Yes",
	IDNO:       "No",
	IDTRYAGAIN: "Try Again",
	IDCONTINUE: "Continue",
}

// ButtonName returns the display name of code.
func ButtonName(code ButtonCode) (string, error) {
	name, ok := buttonNames[code]
	if !ok {
		return "", &UnknownButtonCodeError{Code: code}
	}
	return name, nil
}

// String implements fmt.Stringer. Unknown codes render as their number.
func (c ButtonCode) String() string {
	if name, err := ButtonName(c); err == nil {
		return name
	}
	return fmt.Sprintf("ButtonCode(%d)", int(c))
}

var buttonSets = map[Flags][]ButtonCode{
	OK:                {IDOK},
	OKCancel:          {IDOK, IDCANCEL},
	AbortRetryIgnore:  {IDABORT, IDRETRY, IDIGNORE},
	YesNoCancel:       {IDYES, IDNO, IDCANCEL},
	YesNo:             {IDYES, IDNO},
	RetryCancel:       {IDRETRY, IDCANCEL},
	CancelTryContinue: {IDCANCEL, IDTRYAGAIN, IDCONTINUE},
}

// AllowedButtons returns the codes a dialog built with flags can return, or
// nil if the button-set sub-field is not a defined value.
func AllowedButtons(flags Flags) []ButtonCode {
	set, ok := buttonSets[flags.ButtonSet()]
	if !ok {
		return nil
	}
	out := make([]ButtonCode, len(set))
	copy(out, set)
	return out
}

func allowed(flags Flags, code ButtonCode) bool {
	set, ok := buttonSets[flags.ButtonSet()]
	if !ok {
		// Undefined button set: the native behavior is unspecified, only
		// require a defined code.
		_, known := buttonNames[code]
		return known
	}
	for _, c := range set {
		if c == code {
			return true
		}
	}
	return false
}
