// Package config loads application configuration from environment variables.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr     string
	DBPath         string
	APIBaseURL     string
	RequestTimeout time.Duration
	// SecretKey is the 32-byte AES-256 key encrypting session API keys at
	// rest. Ephemeral when TACTICUSPANEL_SECRET_KEY is unset, meaning
	// sessions do not survive a restart.
	SecretKey []byte
	// SecretKeyEphemeral is true when SecretKey was generated at startup
	// rather than configured.
	SecretKeyEphemeral bool
}

// Load reads configuration from environment variables and returns a validated
// Config. All variables are optional: TACTICUSPANEL_LISTEN_ADDR
// (127.0.0.1:8080), TACTICUSPANEL_DB_PATH (tacticuspanel.db),
// TACTICUSPANEL_API_BASE_URL (the production Tacticus API),
// TACTICUSPANEL_REQUEST_TIMEOUT (30s), TACTICUSPANEL_SECRET_KEY (64 hex
// chars; a random ephemeral key is generated when unset).
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("TACTICUSPANEL_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "tacticuspanel.db"
	if v, ok := os.LookupEnv("TACTICUSPANEL_DB_PATH"); ok {
		dbPath = v
	}

	apiBaseURL := "https://api.tacticusgame.com/api/v1/"
	if v, ok := os.LookupEnv("TACTICUSPANEL_API_BASE_URL"); ok && v != "" {
		apiBaseURL = v
	}

	requestTimeout := 30 * time.Second
	if v, ok := os.LookupEnv("TACTICUSPANEL_REQUEST_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("TACTICUSPANEL_REQUEST_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("TACTICUSPANEL_REQUEST_TIMEOUT must be positive, got %q", v)
		}
		requestTimeout = parsed
	}

	var secretKey []byte
	ephemeral := false
	if v, ok := os.LookupEnv("TACTICUSPANEL_SECRET_KEY"); ok && v != "" {
		decoded, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("TACTICUSPANEL_SECRET_KEY is not valid hex: %w", err)
		}
		if len(decoded) != 32 {
			return nil, fmt.Errorf("TACTICUSPANEL_SECRET_KEY must decode to 32 bytes, got %d", len(decoded))
		}
		secretKey = decoded
	} else {
		secretKey = make([]byte, 32)
		if _, err := rand.Read(secretKey); err != nil {
			return nil, fmt.Errorf("generate ephemeral secret key: %w", err)
		}
		ephemeral = true
	}

	return &Config{
		ListenAddr:         listenAddr,
		DBPath:             dbPath,
		APIBaseURL:         apiBaseURL,
		RequestTimeout:     requestTimeout,
		SecretKey:          secretKey,
		SecretKeyEphemeral: ephemeral,
	}, nil
}
