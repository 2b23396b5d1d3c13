package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/note-search/internal/tokenizer"
	"github.com/gcbaptista/note-search/model"
	"github.com/gcbaptista/note-search/services"
)

// SearchRequest defines the structure for search queries.
type SearchRequest struct {
	Query    *string  `json:"query"` // null or blank lists notes newest first
	Tags     []string `json:"tags,omitempty"`
	Page     int      `json:"page"`
	PageSize *int     `json:"page_size,omitempty"` // omitted uses the default page size
}

// SearchHandler ranks the caller's notes against a phrase.
// Request Body: SearchRequest
func (api *API) SearchHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	pageSize := api.defaultPageSize
	if req.PageSize != nil {
		pageSize = *req.PageSize
	}

	api.search(c, services.SearchQuery{
		Phrase:   req.Query,
		OwnerID:  ownerFrom(c),
		TagNames: req.Tags,
		Page:     req.Page,
		PageSize: pageSize,
	})
}

// ListNotesHandler lists or searches the caller's notes from query parameters:
// q (phrase), tags (comma separated), page (zero-based) and page_size.
func (api *API) ListNotesHandler(c *gin.Context) {
	page, pageSize, result := ParsePagination(c.Query("page"), c.Query("page_size"), api.defaultPageSize)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	var phrase *string
	if q, ok := c.GetQuery("q"); ok {
		phrase = &q
	}

	api.search(c, services.SearchQuery{
		Phrase:   phrase,
		OwnerID:  ownerFrom(c),
		TagNames: ParseTags(c.Query("tags")),
		Page:     page,
		PageSize: pageSize,
	})
}

func (api *API) search(c *gin.Context, query services.SearchQuery) {
	startTime := time.Now()
	result, err := api.notes.Search(c.Request.Context(), query)
	if err != nil {
		SendSearchError(c, err)
		return
	}

	event := model.SearchEvent{
		OwnerID:      query.OwnerID,
		SearchType:   searchType(query),
		ResponseTime: time.Since(startTime),
		ResultCount:  result.Total,
	}
	if query.Phrase != nil {
		event.Query = *query.Phrase
	}
	api.analytics.TrackSearchEvent(event)

	c.JSON(http.StatusOK, result)
}

func searchType(query services.SearchQuery) string {
	switch {
	case !tokenizer.IsBlankPtr(query.Phrase):
		return model.SearchTypePhrase
	case len(query.TagNames) > 0:
		return model.SearchTypeFiltered
	default:
		return model.SearchTypeListing
	}
}
