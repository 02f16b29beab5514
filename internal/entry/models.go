package entry

import "time"

type Entry struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	RaceName      string    `json:"race_name"`
	Location      string    `json:"location"`
	RaceDate      time.Time `json:"race_date"`
	DistanceLabel string    `json:"distance_label"`
	FinishTime    string    `json:"finish_time"`
	Notes         string    `json:"notes"`
	HasRoute      bool      `json:"has_route"`
	CreatedAt     time.Time `json:"created_at"`
}

type Photo struct {
	ID        string    `json:"id"`
	EntryID   string    `json:"entry_id"`
	Kind      string    `json:"kind"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}
