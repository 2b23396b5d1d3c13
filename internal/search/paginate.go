package search

import (
	internalErrors "github.com/gcbaptista/note-search/internal/errors"
)

// ValidatePage checks a zero-based page request.
func ValidatePage(pageIndex, pageSize int) error {
	if pageIndex < 0 {
		return internalErrors.NewInvalidArgumentError("page_index", "must not be negative")
	}
	if pageSize < 0 {
		return internalErrors.NewInvalidArgumentError("page_size", "must not be negative")
	}
	return nil
}

// Paginate returns the zero-based page of items. A page size of zero or a page
// past the end yields an empty, non-nil slice.
func Paginate[T any](items []T, pageIndex, pageSize int) ([]T, error) {
	if err := ValidatePage(pageIndex, pageSize); err != nil {
		return nil, err
	}

	count := len(items)
	// pageIndex > (count-1)/pageSize is start >= count without computing pageIndex*pageSize
	if pageSize == 0 || count == 0 || pageIndex > (count-1)/pageSize {
		return make([]T, 0), nil
	}

	startIndex := pageIndex * pageSize
	endIndex := count
	if pageSize < count-startIndex {
		endIndex = startIndex + pageSize
	}
	return items[startIndex:endIndex], nil
}
