package msgbox

import "fmt"

// Request describes one message box. Owner is an opaque window handle; zero
// means the box has no owner window.
type Request struct {
	Owner uintptr
	Text  string
	Title string
	Flags Flags
}

// Gateway presents a modal message box and blocks until the user dismisses
// it. There is no way to cancel a call once it has been issued.
type Gateway interface {
	Show(req Request) (ButtonCode, error)
}

// GatewayFunc adapts a function to the Gateway interface.
type GatewayFunc func(req Request) (ButtonCode, error)

// Show calls f(req).
func (f GatewayFunc) Show(req Request) (ButtonCode, error) { return f(req) }

type checkedGateway struct {
	next Gateway
}

// Checked wraps g so that a returned code the requested button set cannot
// produce is reported as ErrUnexpectedButton instead of being passed on.
func Checked(g Gateway) Gateway {
	if _, ok := g.(*checkedGateway); ok {
		return g
	}
	return &checkedGateway{next: g}
}

func (c *checkedGateway) Show(req Request) (ButtonCode, error) {
	code, err := c.next.Show(req)
	if err != nil {
		return 0, err
	}
	if !allowed(req.Flags, code) {
		return 0, fmt.Errorf("%w: got %d for button set %#x", ErrUnexpectedButton, int(code), uint64(req.Flags.ButtonSet()))
	}
	return code, nil
}
