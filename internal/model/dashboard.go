package model

type DashboardResponse struct {
	TotalEntries     int            `json:"totalEntries"`
	EntriesThisMonth int            `json:"entriesThisMonth"`
	MoodBreakdown    map[string]int `json:"moodBreakdown"`
	TodosByStatus    map[string]int `json:"todosByStatus"`
	LastEntryDate    *string        `json:"lastEntryDate"`
}
