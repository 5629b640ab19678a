package transfer

import "time"

// ScheduleRequest is the one normalized scheduling input. The JSON and
// multipart wire encodings are both decoded into this shape at the handler
// boundary before any validation happens.
type ScheduleRequest struct {
	PostID           int64    `json:"post_id" form:"post_id"`
	Title            string   `json:"title" form:"title"`
	Content          string   `json:"content" form:"content"`
	ScheduleTime     string   `json:"schedule_time" form:"schedule_time"`
	SpecificSchedule bool     `json:"specific_schedule" form:"specific_schedule"`
	ImageURLs        []string `json:"image_urls"`
}

type ScheduleResult struct {
	PostID       int64     `json:"post_id"`
	ScheduleTime time.Time `json:"schedule_time"`
	Timezone     string    `json:"timezone"`
}

type DraftCreation struct {
	PostID    int64    `json:"post_id" form:"post_id"`
	Title     string   `json:"title" form:"title"`
	Content   string   `json:"content" form:"content"`
	ImageURLs []string `json:"image_urls"`
}

type SettingsUpdate struct {
	FixedScheduleEnabled bool   `json:"fixed_schedule_enabled"`
	FixedScheduleTime    string `json:"fixed_schedule_time"`
	Timezone             string `json:"timezone"`
}

type SettingsInfo struct {
	FixedScheduleEnabled bool   `json:"fixed_schedule_enabled"`
	FixedScheduleTime    string `json:"fixed_schedule_time"`
	Timezone             string `json:"timezone"`
}

// MediaItem is one input to the asset pipeline: either raw bytes from an
// uploaded file or a remote URL to fetch.
type MediaItem struct {
	FileName    string
	Bytes       []byte
	ContentType string
	URL         string
}

func (m *MediaItem) Ref() string {
	if m.URL != "" {
		return m.URL
	}
	return m.FileName
}

type MediaFailure struct {
	Index int    `json:"index"`
	Ref   string `json:"ref"`
	Error string `json:"error"`
}

type SweepResult struct {
	PostID int64  `json:"postId"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type SweepSummary struct {
	Skipped        bool          `json:"skipped,omitempty"`
	ProcessedCount int           `json:"processedCount"`
	PublishedCount int           `json:"publishedCount"`
	FailedCount    int           `json:"failedCount"`
	Results        []SweepResult `json:"results"`
}

type TitleInfo struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Status string `json:"status"`
}

type TitleBatchInfo struct {
	BatchID int64       `json:"batch_id"`
	Status  string      `json:"status"`
	Topic   string      `json:"topic"`
	Titles  []TitleInfo `json:"titles"`
}

type TitleGeneration struct {
	Topic string `json:"topic" form:"topic"`
	Count int    `json:"count" form:"count"`
}

type TitleSelection struct {
	Titles []string `json:"titles"`
}

type GeneratedContent struct {
	Body             string `json:"body"`
	ImageSearchQuery string `json:"image_search_query"`
}
