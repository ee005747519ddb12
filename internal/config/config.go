package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"fleetreport/internal/telemetry"
)

// Config holds all environment-driven settings.
type Config struct {
	HTTPPort           string
	Environment        string
	WorkWindow         telemetry.Window
	RulesPath          string
	MaxUploadMB        int
	EnableRulesWatcher bool
}

const (
	defaultWorkStart = "08:30"
	defaultWorkEnd   = "17:30"
)

// Load reads configuration from environment and optional .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:           getenv("PORT", "8080"),
		Environment:        getenv("ENVIRONMENT", "local"),
		WorkWindow:         loadWindow(),
		RulesPath:          getenv("DRIVER_RULES_PATH", ""),
		MaxUploadMB:        clampInt(getenvInt("MAX_UPLOAD_MB", 32), 1, 256),
		EnableRulesWatcher: getenvBool("ENABLE_RULES_WATCHER", true),
	}

	log.Printf("config: port=%s window=%s rules=%s env=%s", cfg.HTTPPort, cfg.WorkWindow, cfg.RulesPath, cfg.Environment)
	return cfg
}

// loadWindow parses WORK_START/WORK_END, falling back to the 08:30-17:30
// defaults when either value is malformed.
func loadWindow() telemetry.Window {
	start, err := telemetry.ParseClock(getenv("WORK_START", defaultWorkStart))
	if err != nil {
		log.Printf("config: bad WORK_START, using %s: %v", defaultWorkStart, err)
		start, _ = telemetry.ParseClock(defaultWorkStart)
	}
	end, err := telemetry.ParseClock(getenv("WORK_END", defaultWorkEnd))
	if err != nil {
		log.Printf("config: bad WORK_END, using %s: %v", defaultWorkEnd, err)
		end, _ = telemetry.ParseClock(defaultWorkEnd)
	}
	if end < start {
		log.Printf("config: work window %s-%s inverted, using defaults", start, end)
		start, _ = telemetry.ParseClock(defaultWorkStart)
		end, _ = telemetry.ParseClock(defaultWorkEnd)
	}
	return telemetry.Window{Start: start, End: end}
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
