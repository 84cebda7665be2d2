package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventReviewSubmitted EventType = "review.submitted"
	EventReviewHelpful   EventType = "review.helpful"
	EventReviewReported  EventType = "review.reported"
	EventCartAdded       EventType = "cart.added"
	EventWishlistAdded   EventType = "wishlist.added"
)

// Event is emitted for side effects a caller may want to observe
// (moderation reports, cart activity) instead of logging them.
type Event struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	SubjectID    int64     `json:"subjectId"`
	RestaurantID int64     `json:"restaurantId,omitempty"`
	SessionID    string    `json:"sessionId,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	At           time.Time `json:"at"`
}

func NewEvent(t EventType, subjectID int64, at time.Time) Event {
	return Event{ID: uuid.NewString(), Type: t, SubjectID: subjectID, At: at}
}
