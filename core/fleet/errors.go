package fleet

import "fmt"

// NotFoundError reports a reference to an entity that is not in the arena.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}
