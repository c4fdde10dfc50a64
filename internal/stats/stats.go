package stats

type PlatformStats struct {
	TotalChallenges     int     `json:"total_challenges"`
	TotalTips           int     `json:"total_tips"`
	TotalEvents         int     `json:"total_events"`
	TotalUsers          int     `json:"total_users"`
	ActiveParticipants  int     `json:"active_participants"`
	TotalLoggedQuantity float64 `json:"total_logged_quantity"`
}
