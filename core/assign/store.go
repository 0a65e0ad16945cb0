package assign

import (
	"context"

	"github.com/helmside/boatclub/core/fleet"
)

// FleetStore loads the fleet aggregate and persists sweep mutations.
type FleetStore interface {
	// LoadFleet returns the fleet with boats, batteries and reservations
	// fully linked.
	LoadFleet(ctx context.Context) (*fleet.Fleet, error)

	// SaveSweep persists the reservations named by changed, together with
	// the usage counters of their batteries, in a single transaction.
	SaveSweep(ctx context.Context, f *fleet.Fleet, changed []int64) error
}
