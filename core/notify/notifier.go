package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/helmside/boatclub/core/model"
)

// TitleBatteryAssigned is the fixed title of assignment hand-off messages.
const TitleBatteryAssigned = "Battery Assigned"

// Message is one hand-off notification addressed to a club member.
type Message struct {
	ID     string    `json:"id"`
	UserID int64     `json:"user_id"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	Time   time.Time `json:"time"`
}

// Notifier dispatches hand-off messages. Notify is called once per sweep
// with the full batch, after the mutated state has been persisted.
type Notifier interface {
	Notify(ctx context.Context, msgs []Message) error
	Close() error
}

// AssignedMessage builds the notification for a reservation that just
// received a battery.
func AssignedMessage(r model.Reservation, now time.Time) Message {
	return Message{
		UserID: r.UserID,
		Title:  TitleBatteryAssigned,
		Body: fmt.Sprintf("A battery has been assigned to your reservation on %s at %s.",
			r.Slot.Date.Format("2006-01-02"), r.Slot.Start.Format("15:04")),
		Time: now,
	}
}

// HandoffMessage builds the notification naming the previous holder of the
// battery after a cancellation.
func HandoffMessage(r model.Reservation, holder model.User, now time.Time) Message {
	return Message{
		UserID: r.UserID,
		Title:  "Battery Hand-off",
		Body: fmt.Sprintf("Collect the battery for %s from %s.",
			r.Slot.Date.Format("2006-01-02"), holder.Name),
		Time: now,
	}
}
