package analytics

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gcbaptista/note-search/model"
)

const (
	defaultMaxEvents = 10000 // keep the last 10k events in memory
	popularLimit     = 5
)

// Service tracks search events in memory and reports per-owner dashboards.
type Service struct {
	mutex     sync.RWMutex
	events    []model.SearchEvent
	maxEvents int
	now       func() time.Time
}

// NewService creates an analytics service keeping at most maxEvents events.
// A non-positive maxEvents uses the default.
func NewService(maxEvents int) *Service {
	if maxEvents <= 0 {
		maxEvents = defaultMaxEvents
	}
	return &Service{
		events:    make([]model.SearchEvent, 0),
		maxEvents: maxEvents,
		now:       time.Now,
	}
}

// TrackSearchEvent records a new search event
func (s *Service) TrackSearchEvent(event model.SearchEvent) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > s.maxEvents {
		s.events = s.events[len(s.events)-s.maxEvents:]
	}
}

// GetDashboardData returns the owner's analytics for the last 24 hours
func (s *Service) GetDashboardData(ownerID string) model.AnalyticsDashboard {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	now := s.now()
	yesterday := now.Add(-24 * time.Hour)

	var current, previous []model.SearchEvent
	for _, event := range s.events {
		if event.OwnerID != ownerID {
			continue
		}
		switch {
		case event.Timestamp.After(yesterday):
			current = append(current, event)
		case event.Timestamp.After(yesterday.Add(-24 * time.Hour)):
			previous = append(previous, event)
		}
	}

	dashboard := model.AnalyticsDashboard{
		TotalSearches:            len(current),
		SearchesChangePercent:    calculateChangePercent(len(current), len(previous)),
		AvgResponseTime:          calculateAvgResponseTime(current),
		PopularSearches:          popularSearches(current),
		ResponseTimeDistribution: responseTimeDistribution(current),
	}
	for _, event := range current {
		if event.ResultCount == 0 {
			dashboard.ZeroResultSearches++
		}
		switch event.SearchType {
		case model.SearchTypePhrase:
			dashboard.SearchTypes.Phrase++
		case model.SearchTypeFiltered:
			dashboard.SearchTypes.Filtered++
		default:
			dashboard.SearchTypes.Listing++
		}
	}
	return dashboard
}

func calculateChangePercent(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100.0
		}
		return 0.0
	}
	return float64(current-previous) / float64(previous) * 100.0
}

func calculateAvgResponseTime(events []model.SearchEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	return (total / time.Duration(len(events))).Milliseconds()
}

// popularSearches groups phrases case-insensitively; the most frequent come
// first, ties in alphabetical order.
func popularSearches(events []model.SearchEvent) []model.PopularSearch {
	counts := make(map[string]int)
	for _, event := range events {
		query := strings.ToLower(strings.TrimSpace(event.Query))
		if query != "" {
			counts[query]++
		}
	}

	popular := make([]model.PopularSearch, 0, len(counts))
	for query, count := range counts {
		popular = append(popular, model.PopularSearch{Query: query, SearchCount: count})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].SearchCount != popular[j].SearchCount {
			return popular[i].SearchCount > popular[j].SearchCount
		}
		return popular[i].Query < popular[j].Query
	})

	if len(popular) > popularLimit {
		popular = popular[:popularLimit]
	}
	return popular
}

func responseTimeDistribution(events []model.SearchEvent) model.ResponseTimeDistribution {
	dist := model.ResponseTimeDistribution{}
	total := len(events)
	if total == 0 {
		return dist
	}

	for _, event := range events {
		ms := event.ResponseTime.Milliseconds()
		switch {
		case ms <= 25:
			dist.Bucket0To25ms++
		case ms <= 50:
			dist.Bucket25To50ms++
		case ms <= 100:
			dist.Bucket50To100ms++
		default:
			dist.Bucket100msPlus++
		}
	}

	dist.Percentage0To25 = float64(dist.Bucket0To25ms) / float64(total) * 100
	dist.Percentage25To50 = float64(dist.Bucket25To50ms) / float64(total) * 100
	dist.Percentage50To100 = float64(dist.Bucket50To100ms) / float64(total) * 100
	dist.Percentage100Plus = float64(dist.Bucket100msPlus) / float64(total) * 100
	return dist
}
