package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/helmside/boatclub/core/events"
	"github.com/helmside/boatclub/core/fleet"
	"github.com/helmside/boatclub/core/logger"
	"github.com/helmside/boatclub/core/model"
	"github.com/helmside/boatclub/core/notify"
	"github.com/helmside/boatclub/internal/eventbus"
)

// ErrSlotTaken rejects booking a slot already reserved on the same boat.
var ErrSlotTaken = errors.New("time slot already reserved for this boat")

// Store is the persistence surface the booking entry points need.
type Store interface {
	LoadFleet(ctx context.Context) (*fleet.Fleet, error)
	TimeSlot(ctx context.Context, id int64) (model.TimeSlot, error)
	InsertReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservation(ctx context.Context, r model.Reservation) error
	InsertBattery(ctx context.Context, b *model.Battery) error
	SetBoatAvailability(ctx context.Context, boatID int64, available bool) error
}

// Service implements the user-facing booking flow and the fleet admin
// mutations. The assignment sweep picks up new reservations on its own; a
// fresh reservation starts without a battery.
type Service struct {
	store    Store
	notifier notify.Notifier
	bus      eventbus.EventBus
	log      logger.Logger
	clock    func() time.Time
}

// NewService wires the booking dependencies. notifier and bus may be nil.
func NewService(store Store, notifier notify.Notifier, bus eventbus.EventBus, log logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	return &Service{store: store, notifier: notifier, bus: bus, log: log, clock: time.Now}, nil
}

// SetClock overrides the time source, for deterministic tests.
func (s *Service) SetClock(clock func() time.Time) {
	if clock != nil {
		s.clock = clock
	}
}

// CreateReservation books the slot for the user on the boat. The reservation
// is created unassigned and waits for the next assignment sweep.
func (s *Service) CreateReservation(ctx context.Context, boatID, slotID, userID int64) (model.Reservation, error) {
	f, err := s.store.LoadFleet(ctx)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("load fleet: %w", err)
	}
	if _, ok := f.Boat(boatID); !ok {
		return model.Reservation{}, fleet.NotFoundError{Kind: "boat", ID: boatID}
	}
	if _, ok := f.User(userID); !ok {
		return model.Reservation{}, fleet.NotFoundError{Kind: "user", ID: userID}
	}
	slot, err := s.store.TimeSlot(ctx, slotID)
	if err != nil {
		return model.Reservation{}, err
	}
	for _, r := range f.Reservations(boatID) {
		if !r.Deleted && r.Slot.ID == slotID {
			return model.Reservation{}, ErrSlotTaken
		}
	}

	r := model.Reservation{BoatID: boatID, UserID: userID, Slot: slot}
	if err := s.store.InsertReservation(ctx, &r); err != nil {
		return model.Reservation{}, fmt.Errorf("insert reservation: %w", err)
	}
	return r, nil
}

// CancelReservation soft-deletes the reservation and, when a battery was
// linked, notifies the member who must hand the unit back to the mentor.
func (s *Service) CancelReservation(ctx context.Context, id int64, isAdmin bool) error {
	f, err := s.store.LoadFleet(ctx)
	if err != nil {
		return fmt.Errorf("load fleet: %w", err)
	}
	now := s.clock()
	if err := f.CancelReservation(id, now, isAdmin); err != nil {
		return err
	}
	r, _ := f.Reservation(id)
	if err := s.store.UpdateReservation(ctx, r); err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}

	if s.bus != nil && r.PreviousHolderID != 0 {
		s.bus.Publish(events.HandoffEvent{
			ReservationID:    r.ID,
			UserID:           r.UserID,
			PreviousHolderID: r.PreviousHolderID,
			Cancelled:        true,
		})
	}
	if s.notifier != nil && r.PreviousHolderID != 0 {
		holder, _ := f.User(r.PreviousHolderID)
		msg := notify.HandoffMessage(r, holder, now)
		msg.ID = uuid.NewString()
		if nerr := s.notifier.Notify(ctx, []notify.Message{msg}); nerr != nil && s.log != nil {
			// The cancellation itself is already persisted.
			s.log.Errorf("hand-off notification: %v", nerr)
		}
	}
	return nil
}

// AddBattery registers a new battery on a boat.
func (s *Service) AddBattery(ctx context.Context, b model.Battery) (model.Battery, error) {
	if err := b.Validate(); err != nil {
		return model.Battery{}, err
	}
	f, err := s.store.LoadFleet(ctx)
	if err != nil {
		return model.Battery{}, fmt.Errorf("load fleet: %w", err)
	}
	if _, ok := f.Boat(b.BoatID); !ok {
		return model.Battery{}, fleet.NotFoundError{Kind: "boat", ID: b.BoatID}
	}
	if _, ok := f.User(b.MentorID); !ok {
		return model.Battery{}, fleet.NotFoundError{Kind: "user", ID: b.MentorID}
	}
	if err := s.store.InsertBattery(ctx, &b); err != nil {
		return model.Battery{}, fmt.Errorf("insert battery: %w", err)
	}
	return b, nil
}

// SetBoatAvailability flips the manual availability toggle on a boat.
func (s *Service) SetBoatAvailability(ctx context.Context, boatID int64, available bool) error {
	f, err := s.store.LoadFleet(ctx)
	if err != nil {
		return fmt.Errorf("load fleet: %w", err)
	}
	if _, ok := f.Boat(boatID); !ok {
		return fleet.NotFoundError{Kind: "boat", ID: boatID}
	}
	return s.store.SetBoatAvailability(ctx, boatID, available)
}
