package notify

import "errors"

// ErrPublishTimeout is returned when the transport does not confirm delivery
// before the configured timeout.
var ErrPublishTimeout = errors.New("timeout publishing notification")
