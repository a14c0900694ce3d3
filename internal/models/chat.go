package models

import "time"

// Conversation is a chatbot session as recorded by the backend. Read-only here.
type Conversation struct {
	ID           string          `json:"_id"`
	Student      StudentSnapshot `json:"student"`
	StartTime    time.Time       `json:"startTime"`
	LastTopic    string          `json:"lastTopic"`
	Interactions []Interaction   `json:"interactions"`
}

// StudentSnapshot is the denormalized student copy embedded in a conversation
type StudentSnapshot struct {
	ID       string `json:"_id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type Interaction struct {
	Timestamp time.Time `json:"timestamp"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
}
