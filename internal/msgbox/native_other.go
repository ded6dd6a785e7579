//go:build !windows

package msgbox

import (
	"fmt"

	"github.com/loicsikidi/winkit/internal"
)

// Native returns a gateway that always fails: message boxes only exist on
// Windows.
func Native() Gateway {
	return GatewayFunc(func(req Request) (ButtonCode, error) {
		return 0, fmt.Errorf("showing %q: %w", req.Title, internal.ErrUnsupported)
	})
}
