package main

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "strings"
    "sync"
    "time"

    "portfoliotracker/internal/quote"

    "go.uber.org/zap"
    "golang.org/x/sync/errgroup"
)

type apiError struct {
    Error string `json:"error"`
}

type batchRequest struct {
    Symbols []string `json:"symbols"`
}

// batchQuote is the per-symbol success shape of POST /api/prices. It carries
// no currency field; only the single-quote response does.
type batchQuote struct {
    Price         float64  `json:"price"`
    PreviousClose *float64 `json:"previousClose"`
    Name          string   `json:"name"`
}

// maxBatchConcurrency bounds parallel upstream calls within one batch request.
const maxBatchConcurrency = 8

// maxBatchSymbols caps the symbol list of one batch request.
const maxBatchSymbols = 1000

type server struct {
    fetcher quote.Fetcher
    static  http.Handler
    timeout time.Duration
}

// ServeHTTP is the front door: API paths are routed by method and prefix,
// every other GET falls through to the static file server.
func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
    switch r.Method {
    case http.MethodGet:
        if strings.HasPrefix(r.URL.Path, "/api/price") {
            s.handlePrice(w, r)
            return
        }
        s.static.ServeHTTP(w, r)
    case http.MethodHead:
        s.static.ServeHTTP(w, r)
    case http.MethodPost:
        if r.URL.Path == "/api/prices" {
            s.handleBatchPrices(w, r)
            return
        }
        writeJSON(w, http.StatusNotFound, apiError{Error: "not found"})
    default:
        writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
    }
}

// handlePrice serves GET /api/price?symbol=X.
func (s *server) handlePrice(w http.ResponseWriter, r *http.Request) {
    symbol := r.URL.Query().Get("symbol")
    if symbol == "" {
        writeJSON(w, http.StatusBadRequest, apiError{Error: "symbol parametresi gerekli"})
        return
    }

    ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
    defer cancel()
    q, err := s.fetcher.Fetch(ctx, symbol)
    if err != nil {
        writeJSON(w, singleStatus(err), apiError{Error: err.Error()})
        return
    }
    writeJSON(w, http.StatusOK, q)
}

// singleStatus maps a fetch failure to the single-quote response status:
// 404 for a missing price, the upstream's own code for an HTTP failure,
// 500 for everything else.
func singleStatus(err error) int {
    var notFound *quote.NotFoundError
    if errors.As(err, &notFound) {
        return http.StatusNotFound
    }
    var upstream *quote.UpstreamError
    if errors.As(err, &upstream) {
        return upstream.Code
    }
    return http.StatusInternalServerError
}

// handleBatchPrices serves POST /api/prices. Symbols resolve concurrently
// and independently; a failed symbol becomes an error entry in the map, and
// the response is 200 even when every symbol failed.
func (s *server) handleBatchPrices(w http.ResponseWriter, r *http.Request) {
    var req batchRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        // Covers syntax errors, non-string entries in symbols, and bodies
        // rejected by limitBody alike.
        writeJSON(w, http.StatusBadRequest, apiError{Error: "Geçersiz JSON"})
        return
    }
    if len(req.Symbols) > maxBatchSymbols {
        writeJSON(w, http.StatusBadRequest, apiError{Error: "too many symbols (max 1000)"})
        return
    }

    results := make(map[string]any, len(req.Symbols))
    var mu sync.Mutex

    g := new(errgroup.Group)
    g.SetLimit(maxBatchConcurrency)
    for _, symbol := range req.Symbols {
        g.Go(func() error {
            ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
            defer cancel()
            q, err := s.fetcher.Fetch(ctx, symbol)

            mu.Lock()
            defer mu.Unlock()
            if err != nil {
                var notFound *quote.NotFoundError
                if errors.As(err, &notFound) {
                    results[symbol] = apiError{Error: "Fiyat bulunamadı"}
                } else {
                    results[symbol] = apiError{Error: err.Error()}
                }
                return nil
            }
            results[symbol] = batchQuote{Price: q.Price, PreviousClose: q.PreviousClose, Name: q.Name}
            return nil
        })
    }
    _ = g.Wait()

    writeJSON(w, http.StatusOK, results)
}

// writeJSON writes a JSON body with the headers every API response carries.
// HTML escaping is off so non-ASCII text survives literally.
func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json; charset=utf-8")
    w.Header().Set("Access-Control-Allow-Origin", "*")
    w.WriteHeader(status)
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    _ = enc.Encode(v)
}

// withAPILog logs API traffic only; asset requests stay quiet.
func withAPILog(logger *zap.Logger, next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if !strings.Contains(r.URL.Path, "/api/") {
            next.ServeHTTP(w, r)
            return
        }
        start := time.Now()
        rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
        next.ServeHTTP(rec, r)
        logger.Info("API",
            zap.String("method", r.Method),
            zap.String("path", r.URL.Path),
            zap.Int("status", rec.status),
            zap.Duration("duration", time.Since(start)),
        )
    })
}

type statusRecorder struct {
    http.ResponseWriter
    status int
}

func (s *statusRecorder) WriteHeader(code int) {
    s.status = code
    s.ResponseWriter.WriteHeader(code)
}

// limitBody caps request body size to avoid memory abuse.
func limitBody(next http.Handler) http.Handler {
    const maxBody = 1 << 20 // 1MB
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.Method == http.MethodPost && r.Body != nil {
            r.Body = http.MaxBytesReader(w, r.Body, maxBody)
        }
        next.ServeHTTP(w, r)
    })
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        defer func() {
            if rec := recover(); rec != nil {
                writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal server error"})
            }
        }()
        next.ServeHTTP(w, r)
    })
}
