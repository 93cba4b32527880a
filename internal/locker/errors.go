package locker

import "errors"

// ErrNotLocked is returned when Unlock/RUnlock is called for a key that
// currently has no outstanding lock.
var ErrNotLocked = errors.New("locker: key is not locked")
