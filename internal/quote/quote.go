package quote

import (
    "context"
    "fmt"
)

// Quote is the simplified per-symbol shape served to the front-end.
// PreviousClose is a pointer because the upstream may omit both of its
// previous-close fields; an absent value serializes as null.
type Quote struct {
    Symbol        string   `json:"symbol"`
    Price         float64  `json:"price"`
    PreviousClose *float64 `json:"previousClose"`
    Currency      string   `json:"currency"`
    Name          string   `json:"name"`
}

// Fetcher resolves one ticker into a Quote. Failures come back as typed
// errors; the handlers map them to response statuses.
type Fetcher interface {
    Name() string
    Fetch(ctx context.Context, symbol string) (Quote, error)
}

// NotFoundError means the upstream answered but carried no tradable price.
// Symbol is the caller's original, unnormalized ticker.
type NotFoundError struct {
    Symbol string
}

func (e *NotFoundError) Error() string { return e.Symbol + " bulunamadı" }

// UpstreamError carries a non-2xx status from the quote upstream.
type UpstreamError struct {
    Upstream string
    Code     int
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("%s hatası: %d", e.Upstream, e.Code) }
