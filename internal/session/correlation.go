package session

import "github.com/google/uuid"

func newCorrelationID() string {
	return uuid.NewString()
}
