package model

import "time"

// Search types recorded for analytics.
const (
	SearchTypePhrase   = "phrase"   // a non-blank phrase was scored
	SearchTypeListing  = "listing"  // no phrase, notes listed newest first
	SearchTypeFiltered = "filtered" // listing restricted by tags
)

// SearchEvent represents a single search event for analytics tracking
type SearchEvent struct {
	OwnerID      string        `json:"owner_id"`
	Query        string        `json:"query"`
	SearchType   string        `json:"search_type"`
	ResponseTime time.Duration `json:"response_time"`
	ResultCount  int           `json:"result_count"`
	Timestamp    time.Time     `json:"timestamp"`
}

// PopularSearch represents aggregated data for popular search phrases
type PopularSearch struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
}

// ResponseTimeDistribution buckets search response times
type ResponseTimeDistribution struct {
	Bucket0To25ms     int     `json:"bucket_0_25ms"`
	Bucket25To50ms    int     `json:"bucket_25_50ms"`
	Bucket50To100ms   int     `json:"bucket_50_100ms"`
	Bucket100msPlus   int     `json:"bucket_100ms_plus"`
	Percentage0To25   float64 `json:"percentage_0_25"`
	Percentage25To50  float64 `json:"percentage_25_50"`
	Percentage50To100 float64 `json:"percentage_50_100"`
	Percentage100Plus float64 `json:"percentage_100_plus"`
}

// SearchTypeStats counts searches per search type
type SearchTypeStats struct {
	Phrase   int `json:"phrase"`
	Listing  int `json:"listing"`
	Filtered int `json:"filtered"`
}

// AnalyticsDashboard summarizes one owner's searches over the last 24 hours
type AnalyticsDashboard struct {
	TotalSearches            int                      `json:"total_searches"`
	SearchesChangePercent    float64                  `json:"searches_change_percent"` // against the 24 hours before
	ZeroResultSearches       int                      `json:"zero_result_searches"`
	AvgResponseTime          int64                    `json:"avg_response_time"` // in milliseconds
	PopularSearches          []PopularSearch          `json:"popular_searches"`
	ResponseTimeDistribution ResponseTimeDistribution `json:"response_time_distribution"`
	SearchTypes              SearchTypeStats          `json:"search_types"`
}
