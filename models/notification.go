package models

import "time"

// NotificationTypeNewMatch is the only type this service emits.
const NotificationTypeNewMatch = "new_match"

// NotificationData summarizes the high-quality subset of a match run.
type NotificationData struct {
	MatchCount   int `json:"matchCount"`
	AverageScore int `json:"averageScore"`
}

// Notification is a row of the notifications table, consumed by the web app.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      string           `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Data      NotificationData `json:"data"`
	CreatedAt time.Time        `json:"createdAt"`
}
