package config // package config loads application configuration from environment variables

import (
	"log"      // log is used to report configuration errors and halt execution
	"os"       // os provides access to environment variables
	"strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and paths, ints for durations
// and hashing costs.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	SessionTTLSec int    // idle timeout for sessions in seconds
	BcryptCost    int    // bcrypt cost for the legacy provisioning flow
	DockerBin     string // path to the docker binary used by the network controller
	ContainerName string // webtop container whose connectivity is toggled
	NetworkName   string // docker network granting internet access
	CronFlagPath  string // flag file whose presence pauses the restart cron
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Operational knobs
// with safe defaults (session TTL, docker names, cron flag path) fall back
// when unset.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),      // environment (dev/test/prod)
		Port:          must("APP_PORT"),     // port to bind the HTTP server
		DBUser:        must("DB_USER"),      // database user
		DBPass:        os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:        must("DB_HOST"),      // database host
		DBPort:        must("DB_PORT"),      // database port
		DBName:        must("DB_NAME"),      // database name
		SessionTTLSec: envIntDefault("SESSION_TTL_SEC", 3600),
		BcryptCost:    envIntDefault("BCRYPT_COST", 12),
		DockerBin:     envDefault("DOCKER_BIN", "/usr/bin/docker"),
		ContainerName: envDefault("WEBTOP_CONTAINER", "darkstar-webtop"),
		NetworkName:   envDefault("INTERNET_NETWORK", "portal_internet"),
		CronFlagPath:  envDefault("CRON_PAUSE_FLAG", "/var/lib/portal/cron-paused"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// envDefault returns the variable's value or a default when unset.
func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envIntDefault is like envDefault but converts the value into an integer.
// A malformed value is treated as fatal rather than silently defaulted.
func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
