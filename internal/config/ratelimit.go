package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig carries the sliding-window limiter settings shared by the
// authentication surface and the privileged network-control surface.  Each
// surface gets its own key prefix so counters never bleed between them.
type RateLimitConfig struct {
	MaxAttempts int           // failed attempts allowed inside the window
	Window      time.Duration // sliding window measured from the first attempt
	Lockout     time.Duration // unconditional deny period once over the limit
	DelayStep   time.Duration // progressive delay added per recorded failure
	DelayMax    time.Duration // cap on the progressive delay
	Prefix      string        // key prefix in the backing store
}

func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		MaxAttempts: envInt("RATE_LIMIT_MAX_ATTEMPTS", 5),
		Window:      envDur("RATE_LIMIT_WINDOW", time.Minute),
		Lockout:     envDur("RATE_LIMIT_LOCKOUT", 5*time.Minute),
		DelayStep:   envDur("RATE_LIMIT_DELAY_STEP", 500*time.Millisecond),
		DelayMax:    envDur("RATE_LIMIT_DELAY_MAX", 3*time.Second),
		Prefix:      envStr("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.MaxAttempts < 1 { cfg.MaxAttempts = 1 }
	if cfg.Window <= 0 { cfg.Window = time.Minute }
	if cfg.Lockout < cfg.Window { cfg.Lockout = cfg.Window }
	if cfg.DelayStep < 0 { cfg.DelayStep = 0 }
	if cfg.DelayMax < cfg.DelayStep { cfg.DelayMax = cfg.DelayStep }
	return cfg
}

func envStr(k, d string) string { if v := os.Getenv(k); v != "" { return v }; return d }
func envInt(k string, d int) int {
	v := os.Getenv(k); if v == "" { return d }
	if n, err := strconv.Atoi(v); err == nil { return n }
	return d
}
func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k); if v == "" { return d }
	if dur, err := time.ParseDuration(v); err == nil { return dur }
	return d
}
