package paging

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// Limit bounds. Out-of-range requests are coerced, not rejected.
const (
	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 20
)

// ErrInvalidCursor is returned when a cursor token cannot be decoded.
// It marks a client input error, distinct from a valid cursor that
// points past the end of the collection (which yields an empty page).
var ErrInvalidCursor = errors.New("invalid cursor")

// Params holds the pagination request parameters.
type Params struct {
	Cursor string `json:"cursor"`
	Limit  int    `json:"limit"`
}

// Position is the decoded cursor value: the sort key of the last item
// seen, plus an optional unique tie-break ID for non-unique sort keys.
type Position struct {
	Key int64
	ID  string
}

// Result holds one page of results.
type Result[T any] struct {
	Items      []T    `json:"items"`
	HasNext    bool   `json:"has_next"`
	NextCursor string `json:"next_cursor,omitempty"`
	Limit      int    `json:"limit"`
}

// FetchFunc returns up to limit items with sort key strictly greater
// than after, ordered ascending. A nil after means the collection start.
// This is the only capability the paginator requires from a store.
type FetchFunc[T any] func(ctx context.Context, after *Position, limit int) ([]T, error)

// cursorPayload is the wire structure of a cursor. It never leaves this
// package; callers see only the encoded token.
type cursorPayload struct {
	Key int64  `json:"k"`
	ID  string `json:"id,omitempty"`
}

// Normalize clamps the limit into [MinLimit, MaxLimit].
func Normalize(params Params) Params {
	if params.Limit < MinLimit {
		params.Limit = MinLimit
	} else if params.Limit > MaxLimit {
		params.Limit = MaxLimit
	}
	return params
}

// EncodeCursor encodes a position into an opaque URL-safe token.
func EncodeCursor(pos Position) string {
	b, _ := json.Marshal(cursorPayload{Key: pos.Key, ID: pos.ID})
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor decodes a cursor token. It is a pure function of the
// token bytes; no store lookup is involved, so a cursor whose item has
// since been deleted still decodes cleanly.
func DecodeCursor(cursor string) (Position, error) {
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	var payload cursorPayload
	if err := json.Unmarshal(b, &payload); err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if payload.Key < 0 {
		return Position{}, fmt.Errorf("%w: negative sort key", ErrInvalidCursor)
	}

	return Position{Key: payload.Key, ID: payload.ID}, nil
}

// Paginate produces one page. It decodes the cursor, fetches limit+1
// items past it, trims the overflow item and derives the next cursor
// from the last item kept. cursorOf extracts an item's position.
//
// Store errors propagate unchanged; the paginator adds no retries.
func Paginate[T any](ctx context.Context, params Params, cursorOf func(T) Position, fetch FetchFunc[T]) (*Result[T], error) {
	params = Normalize(params)

	var after *Position
	if params.Cursor != "" {
		pos, err := DecodeCursor(params.Cursor)
		if err != nil {
			return nil, err
		}
		after = &pos
	}

	items, err := fetch(ctx, after, params.Limit+1)
	if err != nil {
		return nil, err
	}

	hasNext := len(items) > params.Limit
	if hasNext {
		items = items[:params.Limit]
	}

	var nextCursor string
	if hasNext {
		nextCursor = EncodeCursor(cursorOf(items[len(items)-1]))
	}

	if items == nil {
		items = make([]T, 0)
	}

	return &Result[T]{
		Items:      items,
		HasNext:    hasNext,
		NextCursor: nextCursor,
		Limit:      params.Limit,
	}, nil
}
