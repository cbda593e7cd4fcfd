package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramAssignment is the companion record created when a saved program is
// assigned to a client. It links client, program, and coach together with
// the activation timestamp the expiry policy is derived from. The record is
// deactivated (not deleted) on unassign so the client's history survives.
type ProgramAssignment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID       primitive.ObjectID `bson:"programId" json:"programId"`
	ClientID        primitive.ObjectID `bson:"clientId" json:"clientId"`
	CoachID         primitive.ObjectID `bson:"coachId" json:"coachId"` // Denormalized for coach-scoped queries
	PersonalMessage string             `bson:"personalMessage,omitempty" json:"personalMessage,omitempty"`
	AssignedAt      time.Time          `bson:"assignedAt" json:"assignedAt"`
	Active          bool               `bson:"active" json:"active"`
	DeactivatedAt   *time.Time         `bson:"deactivatedAt,omitempty" json:"deactivatedAt,omitempty"`
}

// ExpiresAt derives the assignment expiry from the activation timestamp and
// the configured assignment duration.
func (a *ProgramAssignment) ExpiresAt(duration time.Duration) time.Time {
	return a.AssignedAt.Add(duration)
}

// Expired reports whether the assignment's effective duration has elapsed.
func (a *ProgramAssignment) Expired(now time.Time, duration time.Duration) bool {
	return !now.Before(a.ExpiresAt(duration))
}
