package msgbox

// Flags is the uType bitmask passed to MessageBoxW. It is built by OR-ing at
// most one value from each sub-field (button set, icon, default button,
// modality) with any number of extra flags. Combining two values of the same
// sub-field is the caller's responsibility: the result is whatever the
// native facility makes of the overlapping bits, and nothing here validates it.
//
// Only the low 32 bits reach the native call.
type Flags uint64

// Button sets.
const (
	OK                Flags = 0x00000000
	OKCancel          Flags = 0x00000001
	AbortRetryIgnore  Flags = 0x00000002
	YesNoCancel       Flags = 0x00000003
	YesNo             Flags = 0x00000004
	RetryCancel       Flags = 0x00000005
	CancelTryContinue Flags = 0x00000006
)

// Icons.
const (
	IconError       Flags = 0x00000010
	IconHand              = IconError
	IconStop              = IconError
	IconQuestion    Flags = 0x00000020
	IconWarning     Flags = 0x00000030
	IconExclamation       = IconWarning
	IconInformation Flags = 0x00000040
	IconAsterisk          = IconInformation
)

// Default buttons.
const (
	DefButton1 Flags = 0x00000000
	DefButton2 Flags = 0x00000100
	DefButton3 Flags = 0x00000200
	DefButton4 Flags = 0x00000300
)

// Modality.
const (
	ApplModal   Flags = 0x00000000
	SystemModal Flags = 0x00001000
	TaskModal   Flags = 0x00002000
)

// Extra flags.
const (
	Help                Flags = 0x00004000
	SetForeground       Flags = 0x00010000
	DefaultDesktopOnly  Flags = 0x00020000
	TopMost             Flags = 0x00040000
	Right               Flags = 0x00080000
	RTLReading          Flags = 0x00100000
	ServiceNotification Flags = 0x00200000
)

const (
	buttonSetMask     Flags = 0x0000000F
	iconMask          Flags = 0x000000F0
	defaultButtonMask Flags = 0x00000F00
	modalityMask      Flags = 0x00003000
)

// ButtonSet returns the button-set sub-field.
func (f Flags) ButtonSet() Flags { return f & buttonSetMask }

// Icon returns the icon sub-field.
func (f Flags) Icon() Flags { return f & iconMask }

// DefaultButton returns the default-button sub-field.
func (f Flags) DefaultButton() Flags { return f & defaultButtonMask }

// Modality returns the modality sub-field.
func (f Flags) Modality() Flags { return f & modalityMask }

// Has reports whether every bit of extra is set in f.
func (f Flags) Has(extra Flags) bool { return f&extra == extra }
