package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func BasePath() (string, bool) {
	return os.LookupEnv("APP_BASE_PATH")
}

func Port() (string, bool) {
	return os.LookupEnv("APP_PORT")
}

func Development() (bool, bool) {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false, false
	}
	return development != "0", true
}

func CorsOrigins() ([]string, bool) {
	value, ok := os.LookupEnv("CORS_ORIGINS")
	if !ok {
		return nil, false
	}
	var origins []string
	for _, origin := range strings.Split(value, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins, true
}

func SessionTTL() (time.Duration, bool, error) {
	value, ok := os.LookupEnv("SESSION_TTL")
	if !ok {
		return 0, false, nil
	}
	ttl, err := time.ParseDuration(value)
	if err != nil {
		return 0, false, fmt.Errorf("SESSION_TTL env variable is invalid: %w", err)
	}
	return ttl, true, nil
}

func Seed() (uint64, bool, error) {
	value, ok := os.LookupEnv("MINES_SEED")
	if !ok {
		return 0, false, nil
	}
	seed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("MINES_SEED env variable is invalid: %w", err)
	}
	return seed, true, nil
}
