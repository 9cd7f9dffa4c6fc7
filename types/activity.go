package types

// Activity is one entry of the admin dashboard's recent-activity feed.
type Activity struct {
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
}
