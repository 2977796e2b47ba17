package models

// DailySentiment is one row of the rolling-window trend table.
type DailySentiment struct {
	Date        string `json:"date"` // YYYY-MM-DD
	Positive    int    `json:"positive"`
	Neutral     int    `json:"neutral"`
	Negative    int    `json:"negative"`
	NotAnalyzed int    `json:"not_analyzed"`
}

// DaySentiment is one row of the calendar-month table.
type DaySentiment struct {
	Day      int `json:"day"`
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}
