// Package paging implements cursor-based pagination for ordered
// collections.
//
// A cursor is an opaque, URL-safe token encoding the sort key of the last
// item the client has seen. Pages are produced by fetching limit+1 items
// with sort key strictly greater than the cursor position, ordered
// ascending, then trimming the extra item; its presence is what signals a
// next page without a separate count query.
//
// # Basic Usage
//
//	params := paging.Params{
//	    Cursor: c.Query("cursor"),
//	    Limit:  limit,
//	}
//
//	result, err := paging.Paginate(ctx, params,
//	    func(p *product.Product) paging.Position {
//	        return paging.Position{Key: p.ID}
//	    },
//	    func(ctx context.Context, after *paging.Position, limit int) ([]*product.Product, error) {
//	        return repo.ListAfter(ctx, after, limit)
//	    },
//	)
//	if errors.Is(err, paging.ErrInvalidCursor) {
//	    // client error, not a server fault
//	}
//
// # Guarantees
//
// Feeding each page's NextCursor into the next call yields every item
// exactly once, in order, provided sort keys are unique, monotonically
// assigned and never reused. Items deleted mid-traversal are simply
// absent; items inserted beyond the current position appear in later
// pages. Items inserted at or before the current position are never seen
// by that traversal; cursor pagination promises forward-only visibility,
// not a point-in-time snapshot.
//
// The paginator holds no state between calls: two clients resuming from
// the same cursor get the same next page, which makes retries safe.
//
// # Ordering stability
//
// When the primary sort key can collide (a timestamp, for instance), set
// Position.ID to a unique secondary field. The cursor then encodes both,
// and stores must apply (key, id) lexicographic ordering so no item is
// duplicated or skipped at a tie boundary.
//
// # Limits
//
// Requested limits are clamped into [MinLimit, MaxLimit], never rejected.
// This is a deliberate leniency: an out-of-range limit coerces to the
// nearest boundary so the endpoint stays usable. DefaultLimit is what
// HTTP handlers should substitute for an absent limit parameter.
package paging
