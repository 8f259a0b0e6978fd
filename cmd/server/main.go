package main

import (
    "context"
    "fmt"
    "net"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "portfoliotracker/internal/config"
    "portfoliotracker/internal/httpx"
    "portfoliotracker/internal/quote/yahoo"

    "github.com/joho/godotenv"
    "github.com/pkg/browser"
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

func main() {
    _ = godotenv.Load()

    cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
    if err != nil {
        fmt.Fprintf(os.Stderr, "config: %v\n", err)
        os.Exit(1)
    }

    logger := newLogger()
    defer logger.Sync()

    timeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second
    httpClient := httpx.New(timeout, cfg.Yahoo.InsecureTLS)
    httpClient.UserAgent = cfg.Yahoo.UserAgent
    fetcher := yahoo.New(
        yahoo.WithBaseURL(cfg.Yahoo.Endpoint),
        yahoo.WithHTTPClient(httpClient),
        yahoo.WithUserAgent(cfg.Yahoo.UserAgent),
    )

    srv := &http.Server{
        Addr: net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
        Handler: withAPILog(logger, recoverPanic(limitBody(&server{
            fetcher: fetcher,
            static:  http.FileServer(http.Dir(cfg.Server.StaticDir)),
            timeout: timeout,
        }))),
        ReadHeaderTimeout: 5 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    rootURL := fmt.Sprintf("http://localhost:%s", cfg.Server.Port)

    go func() {
        printBanner(rootURL)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            logger.Fatal("server", zap.Error(err))
        }
    }()

    if cfg.Server.OpenBrowser {
        // Best effort; a headless box without a browser is fine.
        go func() { _ = browser.OpenURL(rootURL) }()
    }

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    <-ctx.Done()

    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    _ = srv.Shutdown(shutdownCtx)
    fmt.Println("\nSunucu durduruldu.")
}

func newLogger() *zap.Logger {
    logCfg := zap.NewProductionConfig()
    logCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
    logCfg.EncoderConfig.TimeKey = "time"
    logger, err := logCfg.Build()
    if err != nil {
        fmt.Fprintf(os.Stderr, "logger: %v\n", err)
        os.Exit(1)
    }
    return logger
}

func printBanner(rootURL string) {
    fmt.Printf(`
+------------------------------------------+
|   Portfolio Takip Sunucusu Calisiyor     |
|   %-38s |
|   Durdurmak icin Ctrl+C                  |
+------------------------------------------+
`, rootURL)
}
