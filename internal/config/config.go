package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "strings"
)

type Server struct {
    Host              string `json:"host"`
    Port              string `json:"port"`
    StaticDir         string `json:"static_dir"`
    RequestTimeoutSec int    `json:"request_timeout_sec"`
    OpenBrowser       bool   `json:"open_browser"`
}

type Yahoo struct {
    Endpoint    string `json:"endpoint"`
    UserAgent   string `json:"user_agent"`
    InsecureTLS bool   `json:"insecure_tls"`
}

type Config struct {
    Server Server `json:"server"`
    Yahoo  Yahoo  `json:"yahoo"`
}

func Default() Config {
    return Config{
        Server: Server{
            Host:              "127.0.0.1",
            Port:              "5555",
            StaticDir:         "web",
            RequestTimeoutSec: 10,
            OpenBrowser:       true,
        },
        Yahoo: Yahoo{
            Endpoint:    "https://query1.finance.yahoo.com",
            UserAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
            InsecureTLS: true,
        },
    }
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. Environment variables override select fields.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        if _, err := os.Stat("config.json"); err == nil {
            path = "config.json"
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := json.Unmarshal(b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    applyEnv(&cfg)
    return cfg, nil
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("HOST"); v != "" { cfg.Server.Host = v }
    if v := os.Getenv("PORT"); v != "" { cfg.Server.Port = v }
    if v := os.Getenv("STATIC_DIR"); v != "" { cfg.Server.StaticDir = v }
    if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Server.RequestTimeoutSec = x }
    }
    if v := os.Getenv("OPEN_BROWSER"); v != "" { cfg.Server.OpenBrowser = parseBool(v, cfg.Server.OpenBrowser) }
    if v := os.Getenv("YAHOO_ENDPOINT"); v != "" { cfg.Yahoo.Endpoint = v }
    if v := os.Getenv("YAHOO_USER_AGENT"); v != "" { cfg.Yahoo.UserAgent = v }
    if v := os.Getenv("INSECURE_TLS"); v != "" { cfg.Yahoo.InsecureTLS = parseBool(v, cfg.Yahoo.InsecureTLS) }
}

func parseBool(v string, def bool) bool {
    switch strings.ToLower(v) {
    case "1", "true", "yes", "y":
        return true
    case "0", "false", "no", "n":
        return false
    }
    return def
}
