package domain

import (
	"context"
	"fmt"
)

// Page is one response of a paginated list call. An empty NextToken marks the last page.
type Page[T any] struct {
	Items     []T
	NextToken string
}

// PageFetcher returns the page for a continuation token, "" for the first page.
type PageFetcher[T any] func(ctx context.Context, nextToken string) (Page[T], error)

// CollectPages follows continuation tokens until a page has none and concatenates the items
// in arrival order. keep, if not nil, runs once over the merged items. A failed fetch
// discards everything collected so far.
func CollectPages[T any](ctx context.Context, fetch PageFetcher[T], keep func(T) bool) (Page[T], error) {
	var (
		items []T
		token string
		pages int
	)

	for {
		page, err := fetch(ctx, token)
		if err != nil {
			return Page[T]{}, fmt.Errorf("%w %d: %w", ErrAggregationTransport, pages+1, err)
		}
		pages++

		items = append(items, page.Items...)

		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}

	if keep != nil {
		filtered := make([]T, 0, len(items))
		for _, item := range items {
			if keep(item) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	if items == nil {
		items = []T{}
	}

	return Page[T]{Items: items}, nil
}
