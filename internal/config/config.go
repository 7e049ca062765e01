package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Game holds the game configuration read from the hunt config file.
type Game struct {
	// Passphrase is the shared secret gating entry to the game,
	// distinct from per-player credentials
	Passphrase string
	// BaseURL is the externally visible base URL of the server
	BaseURL string
	// Port is the HTTP listen port
	Port int
	// NumFoundForUnlock is the number of finds within a level that
	// triggers unlocking a next-level location
	NumFoundForUnlock int
}

// Default returns the values used for keys absent from the config file.
func Default() Game {
	return Game{
		Passphrase:        "",
		BaseURL:           "http://localhost:8080",
		Port:              8080,
		NumFoundForUnlock: 2,
	}
}

// Load reads a game config file from disk.
func Load(path string) (Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return Game{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Parse reads game configuration from r.
//
// The format is one `key = value` pair per line, values optionally enclosed
// in double quotes. The first occurrence of a key wins. Unrecognized keys
// and malformed lines are ignored.
func Parse(r io.Reader) (Game, error) {
	cfg := Default()
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := splitLine(scanner.Text())
		if !ok || seen[key] {
			continue
		}
		seen[key] = true

		switch key {
		case "passphrase":
			cfg.Passphrase = value
		case "base_url":
			cfg.BaseURL = value
		case "port":
			port, err := strconv.Atoi(value)
			if err != nil {
				return Game{}, fmt.Errorf("invalid port %q: %w", value, err)
			}
			cfg.Port = port
		case "num_found_for_unlock":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return Game{}, fmt.Errorf("num_found_for_unlock must be a positive integer, got %q", value)
			}
			cfg.NumFoundForUnlock = n
		}
	}
	if err := scanner.Err(); err != nil {
		return Game{}, fmt.Errorf("read config: %w", err)
	}

	return cfg, nil
}

// splitLine parses a single `key = value` line, stripping optional quotes
// around the value.
func splitLine(line string) (key, value string, ok bool) {
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}

	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return "", "", false
	}

	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}
