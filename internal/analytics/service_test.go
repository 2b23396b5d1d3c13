package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/note-search/model"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestService(maxEvents int) *Service {
	s := NewService(maxEvents)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestTrackSearchEvent_StampsAndTrims(t *testing.T) {
	s := newTestService(2)

	s.TrackSearchEvent(model.SearchEvent{OwnerID: "o", Query: "first"})
	s.TrackSearchEvent(model.SearchEvent{OwnerID: "o", Query: "second"})
	s.TrackSearchEvent(model.SearchEvent{OwnerID: "o", Query: "third"})

	require.Len(t, s.events, 2)
	assert.Equal(t, "second", s.events[0].Query)
	assert.Equal(t, "third", s.events[1].Query)
	assert.Equal(t, fixedNow, s.events[1].Timestamp)
}

func TestNewService_DefaultCapacity(t *testing.T) {
	assert.Equal(t, defaultMaxEvents, NewService(0).maxEvents)
}

func TestGetDashboardData(t *testing.T) {
	s := newTestService(0)
	recent := fixedNow.Add(-time.Hour)
	older := fixedNow.Add(-30 * time.Hour)

	events := []model.SearchEvent{
		{OwnerID: "o", Query: "Groceries", SearchType: model.SearchTypePhrase, ResponseTime: 10 * time.Millisecond, ResultCount: 2, Timestamp: recent},
		{OwnerID: "o", Query: "groceries ", SearchType: model.SearchTypePhrase, ResponseTime: 30 * time.Millisecond, ResultCount: 0, Timestamp: recent},
		{OwnerID: "o", Query: "plan", SearchType: model.SearchTypePhrase, ResponseTime: 70 * time.Millisecond, ResultCount: 1, Timestamp: recent},
		{OwnerID: "o", SearchType: model.SearchTypeFiltered, ResponseTime: 150 * time.Millisecond, ResultCount: 4, Timestamp: recent},
		{OwnerID: "o", SearchType: model.SearchTypeListing, ResultCount: 4, Timestamp: older},
		{OwnerID: "o", SearchType: model.SearchTypeListing, ResultCount: 4, Timestamp: older},
		{OwnerID: "someone-else", Query: "secret", SearchType: model.SearchTypePhrase, Timestamp: recent},
	}
	for _, event := range events {
		s.TrackSearchEvent(event)
	}

	dashboard := s.GetDashboardData("o")

	assert.Equal(t, 4, dashboard.TotalSearches)
	assert.Equal(t, 100.0, dashboard.SearchesChangePercent)
	assert.Equal(t, 1, dashboard.ZeroResultSearches)
	assert.Equal(t, int64(65), dashboard.AvgResponseTime)
	assert.Equal(t, []model.PopularSearch{
		{Query: "groceries", SearchCount: 2},
		{Query: "plan", SearchCount: 1},
	}, dashboard.PopularSearches)
	assert.Equal(t, model.SearchTypeStats{Phrase: 3, Filtered: 1}, dashboard.SearchTypes)

	dist := dashboard.ResponseTimeDistribution
	assert.Equal(t, 1, dist.Bucket0To25ms)
	assert.Equal(t, 1, dist.Bucket25To50ms)
	assert.Equal(t, 1, dist.Bucket50To100ms)
	assert.Equal(t, 1, dist.Bucket100msPlus)
	assert.Equal(t, 25.0, dist.Percentage100Plus)
}

func TestGetDashboardData_Empty(t *testing.T) {
	dashboard := newTestService(0).GetDashboardData("nobody")

	assert.Zero(t, dashboard.TotalSearches)
	assert.Zero(t, dashboard.SearchesChangePercent)
	assert.Empty(t, dashboard.PopularSearches)
}
