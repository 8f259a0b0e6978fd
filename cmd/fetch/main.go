package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "log"
    "os"
    "strings"
    "time"

    "portfoliotracker/internal/config"
    "portfoliotracker/internal/httpx"
    "portfoliotracker/internal/quote"
    "portfoliotracker/internal/quote/yahoo"
)

// One-shot CLI counterpart of the web UI: resolve tickers and print quotes.
func main() {
    var symbolsCSV string
    var configPath string
    var timeout int

    flag.StringVar(&symbolsCSV, "symbols", getenv("SYMBOLS", "THYAO"), "comma-separated tickers (bare tickers get the .IS suffix)")
    flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
    flag.IntVar(&timeout, "timeout", 0, "request timeout seconds (overrides config)")
    flag.Parse()

    cfg, err := config.Load(configPath)
    if err != nil { log.Fatalf("config: %v", err) }
    if timeout > 0 { cfg.Server.RequestTimeoutSec = timeout }

    symbols := splitCSV(symbolsCSV)
    if len(symbols) == 0 { log.Fatal("no symbols provided") }

    d := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second
    httpClient := httpx.New(d, cfg.Yahoo.InsecureTLS)
    httpClient.UserAgent = cfg.Yahoo.UserAgent
    fetcher := yahoo.New(
        yahoo.WithBaseURL(cfg.Yahoo.Endpoint),
        yahoo.WithHTTPClient(httpClient),
        yahoo.WithUserAgent(cfg.Yahoo.UserAgent),
    )

    ctx, cancel := context.WithTimeout(context.Background(), d)
    defer cancel()

    type result struct {
        symbol string
        quote  quote.Quote
        err    error
    }
    ch := make(chan result, len(symbols))
    for _, s := range symbols {
        go func() {
            q, err := fetcher.Fetch(ctx, s)
            ch <- result{symbol: s, quote: q, err: err}
        }()
    }

    quotes := make([]quote.Quote, 0, len(symbols))
    for range symbols {
        r := <-ch
        if r.err != nil {
            log.Printf("%s %s: %v", fetcher.Name(), r.symbol, r.err)
            continue
        }
        quotes = append(quotes, r.quote)
    }
    if len(quotes) == 0 { os.Exit(1) }

    out := struct {
        Quotes []quote.Quote `json:"quotes"`
    }{Quotes: quotes}
    b, _ := json.MarshalIndent(out, "", "  ")
    fmt.Println(string(b))
}

func splitCSV(s string) []string {
    parts := strings.Split(s, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p != "" { out = append(out, p) }
    }
    return out
}

func getenv(key, def string) string { if v := os.Getenv(key); v != "" { return v }; return def }
