package domain

import "time"

// Exchange is one question and its answer in a chat session.
// History is kept by the presentation layer, never by the answer pipeline.
type Exchange struct {
	ID        string
	Query     string
	Answer    string
	CreatedAt time.Time
}
