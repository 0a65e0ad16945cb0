package fleet

import (
	"sort"

	"github.com/helmside/boatclub/core/model"
)

// Fleet is the arena of club entities. It is not safe for concurrent use;
// the assignment sweep is the only writer of battery links and runs alone.
type Fleet struct {
	users        map[int64]model.User
	periods      map[int64]model.CruisePeriod
	boats        map[int64]model.Boat
	batteries    map[int64]model.Battery
	reservations map[int64]*model.Reservation

	// Index lookups replacing back-references on the entities themselves.
	batteriesByBoat map[int64][]int64
	resByBoat       map[int64][]int64
	resByBattery    map[int64][]int64
}

// New returns an empty arena.
func New() *Fleet {
	return &Fleet{
		users:           map[int64]model.User{},
		periods:         map[int64]model.CruisePeriod{},
		boats:           map[int64]model.Boat{},
		batteries:       map[int64]model.Battery{},
		reservations:    map[int64]*model.Reservation{},
		batteriesByBoat: map[int64][]int64{},
		resByBoat:       map[int64][]int64{},
		resByBattery:    map[int64][]int64{},
	}
}

// AddUser registers a club member.
func (f *Fleet) AddUser(u model.User) { f.users[u.ID] = u }

// AddPeriod registers a cruise period.
func (f *Fleet) AddPeriod(p model.CruisePeriod) error {
	if err := p.Validate(); err != nil {
		return err
	}
	f.periods[p.ID] = p
	return nil
}

// AddBoat registers a boat.
func (f *Fleet) AddBoat(b model.Boat) error {
	if err := b.Validate(); err != nil {
		return err
	}
	f.boats[b.ID] = b
	return nil
}

// AddBattery registers a battery under its owning boat.
func (f *Fleet) AddBattery(b model.Battery) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if _, ok := f.boats[b.BoatID]; !ok {
		return NotFoundError{Kind: "boat", ID: b.BoatID}
	}
	if _, ok := f.users[b.MentorID]; !ok {
		return NotFoundError{Kind: "user", ID: b.MentorID}
	}
	f.batteries[b.ID] = b
	f.batteriesByBoat[b.BoatID] = append(f.batteriesByBoat[b.BoatID], b.ID)
	return nil
}

// AddReservation registers a reservation and indexes it under its boat, and
// under its battery when it already holds one.
func (f *Fleet) AddReservation(r model.Reservation) error {
	if _, ok := f.boats[r.BoatID]; !ok {
		return NotFoundError{Kind: "boat", ID: r.BoatID}
	}
	if _, ok := f.users[r.UserID]; !ok {
		return NotFoundError{Kind: "user", ID: r.UserID}
	}
	if r.BatteryID != 0 {
		if _, ok := f.batteries[r.BatteryID]; !ok {
			return NotFoundError{Kind: "battery", ID: r.BatteryID}
		}
	}
	rc := r
	f.reservations[r.ID] = &rc
	f.resByBoat[r.BoatID] = append(f.resByBoat[r.BoatID], r.ID)
	if r.BatteryID != 0 {
		f.resByBattery[r.BatteryID] = append(f.resByBattery[r.BatteryID], r.ID)
	}
	return nil
}

// User returns a member by id.
func (f *Fleet) User(id int64) (model.User, bool) {
	u, ok := f.users[id]
	return u, ok
}

// Boat returns a boat by id.
func (f *Fleet) Boat(id int64) (model.Boat, bool) {
	b, ok := f.boats[id]
	return b, ok
}

// Battery returns a battery by id, including its current usage count.
func (f *Fleet) Battery(id int64) (model.Battery, bool) {
	b, ok := f.batteries[id]
	return b, ok
}

// Reservation returns a copy of the reservation by id.
func (f *Fleet) Reservation(id int64) (model.Reservation, bool) {
	r, ok := f.reservations[id]
	if !ok {
		return model.Reservation{}, false
	}
	return *r, true
}

// BoatIDs returns all boat ids in ascending order.
func (f *Fleet) BoatIDs() []int64 {
	ids := make([]int64, 0, len(f.boats))
	for id := range f.boats {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Batteries returns the batteries of a boat in registration order.
func (f *Fleet) Batteries(boatID int64) []model.Battery {
	ids := f.batteriesByBoat[boatID]
	res := make([]model.Battery, 0, len(ids))
	for _, id := range ids {
		res = append(res, f.batteries[id])
	}
	return res
}

// Reservations returns copies of a boat's reservations in registration order.
func (f *Fleet) Reservations(boatID int64) []model.Reservation {
	ids := f.resByBoat[boatID]
	res := make([]model.Reservation, 0, len(ids))
	for _, id := range ids {
		res = append(res, *f.reservations[id])
	}
	return res
}

// SetBoatAvailability flips the manual fleet-management toggle.
func (f *Fleet) SetBoatAvailability(boatID int64, available bool) error {
	b, ok := f.boats[boatID]
	if !ok {
		return NotFoundError{Kind: "boat", ID: boatID}
	}
	b.Available = available
	f.boats[boatID] = b
	return nil
}

// link attaches a reservation to a battery, updating the index and the usage
// counter together. unlink is its exact inverse. These two functions are the
// only writers of resByBattery and UsageCount.
func (f *Fleet) link(resID, batteryID int64) {
	f.resByBattery[batteryID] = append(f.resByBattery[batteryID], resID)
	b := f.batteries[batteryID]
	b.UsageCount++
	f.batteries[batteryID] = b
}

func (f *Fleet) unlink(resID, batteryID int64) {
	ids := f.resByBattery[batteryID]
	for i, id := range ids {
		if id == resID {
			f.resByBattery[batteryID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	b := f.batteries[batteryID]
	if b.UsageCount > 0 {
		b.UsageCount--
	}
	f.batteries[batteryID] = b
}
