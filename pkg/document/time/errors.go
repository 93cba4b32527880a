package time

import "errors"

// ErrInvalidActorID is returned when an ActorID cannot be parsed from its
// hex string representation.
var ErrInvalidActorID = errors.New("time: invalid actor id")
