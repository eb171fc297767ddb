package model

import "time"

const (
	MoodHappy   = "happy"
	MoodSad     = "sad"
	MoodNeutral = "neutral"
	MoodExcited = "excited"
	MoodAngry   = "angry"
)

type EntryImage struct {
	Key string `json:"key"`
	URL string `json:"url,omitempty"`
}

// EntryTodo is a snapshot of a todo folded into a diary entry by the
// end-of-day migrator. TodoID keeps the back-reference to the source todo;
// the remaining fields survive even if the todo is deleted later.
type EntryTodo struct {
	TodoID      string  `json:"todoId"`
	Task        string  `json:"task"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
}

type DiaryEntry struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Entry     string       `json:"entry"`
	Mood      string       `json:"mood"`
	Images    []EntryImage `json:"images"`
	Videos    []string     `json:"videos"`
	Links     []string     `json:"links"`
	UserID    int64        `json:"userId"`
	Todos     []EntryTodo  `json:"todos,omitempty"`
	Date      string       `json:"date"`
	Rollup    bool         `json:"rollup"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type CreateEntryRequest struct {
	Title  string   `json:"title" form:"title"`
	Entry  string   `json:"entry" form:"entry"`
	Mood   string   `json:"mood" form:"mood"`
	Videos []string `json:"videos" form:"videos"`
	Links  []string `json:"links" form:"links"`
	Date   string   `json:"date" form:"date"`
}

type UpdateEntryRequest struct {
	Title  *string   `json:"title"`
	Entry  *string   `json:"entry"`
	Mood   *string   `json:"mood"`
	Videos *[]string `json:"videos"`
	Links  *[]string `json:"links"`
}

// EntrySummary is the list representation: no images, videos or todos.
type EntrySummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Date      string    `json:"date"`
	Mood      string    `json:"mood"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RelatedEntry struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Mood     string  `json:"mood"`
	Date     string  `json:"date"`
	Distance float64 `json:"distance"`
}

type RelatedEntriesResponse struct {
	Status  string         `json:"status"`
	Entries []RelatedEntry `json:"entries"`
}

func ValidMood(mood string) bool {
	switch mood {
	case MoodHappy, MoodSad, MoodNeutral, MoodExcited, MoodAngry:
		return true
	}
	return false
}
