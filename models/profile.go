package models

import "time"

// UserProfile is the requesting user's row from the profiles table. Sector
// and funding fields feed the prompt; they are not filters.
type UserProfile struct {
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	Bio       string    `json:"bio"`
	Sector    string    `json:"sector"`
	Location  string    `json:"location"`
	UpdatedAt time.Time `json:"updated_at"`
}
