package domain

import "time"

type ActivityType string

const (
	ActivityLogin         ActivityType = "login"
	ActivitySignup        ActivityType = "signup"
	ActivityProfileUpdate ActivityType = "profile_update"
)

// Activity es una entrada inmutable del historial del usuario.
type Activity struct {
	ID          string       `json:"id" bson:"_id"`
	UserID      string       `json:"userId" bson:"user_id"`
	Type        ActivityType `json:"type" bson:"type"`
	Description string       `json:"description" bson:"description"`
	CreatedAt   time.Time    `json:"createdAt" bson:"created_at"`
}
