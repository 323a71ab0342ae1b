package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// --- Helper Methods ---

// GetReadTimeout parses http.read-timeout.
func (h *HTTPConfig) GetReadTimeout() (time.Duration, error) {
	return parseTimeout("http.read-timeout", h.ReadTimeout, "30s")
}

// GetWriteTimeout parses http.write-timeout.
func (h *HTTPConfig) GetWriteTimeout() (time.Duration, error) {
	return parseTimeout("http.write-timeout", h.WriteTimeout, "60s")
}

// GetIdleTimeout parses http.idle-timeout.
func (h *HTTPConfig) GetIdleTimeout() (time.Duration, error) {
	return parseTimeout("http.idle-timeout", h.IdleTimeout, "2m")
}

// GetShutdownTimeout parses http.shutdown-timeout.
func (h *HTTPConfig) GetShutdownTimeout() (time.Duration, error) {
	return parseTimeout("http.shutdown-timeout", h.ShutdownTimeout, "15s")
}

// ListenAddr returns the host:port the HTTP server binds to.
func (h *HTTPConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", h.Addr, h.Port)
}

func parseTimeout(key, value, fallback string) (time.Duration, error) {
	if value == "" {
		value = fallback
	}
	d, err := StrToDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': %w", key, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s '%s': must be positive", key, value)
	}
	return d, nil
}

// --- Duration Parsing Helper (handles 'd' and 'w') ---

// StrToDuration converts a string defining time period and return a time.Duration
func StrToDuration(durationStr string) (time.Duration, error) {
	durationStr = strings.TrimSpace(durationStr)
	if durationStr == "" {
		return 0, fmt.Errorf("empty duration string")
	}
	if durationStr == "0" {
		return 0, nil
	}

	var numStr string
	var unitStr string
	splitIndex := -1
	for i, r := range durationStr {
		if !unicode.IsDigit(r) && r != '.' {
			splitIndex = i
			break
		}
	}

	if splitIndex == -1 {
		// Bare number, let time.ParseDuration report the missing unit
		numStr = durationStr
		unitStr = ""
	} else {
		numStr = durationStr[:splitIndex]
		unitStr = durationStr[splitIndex:]
	}

	switch strings.ToLower(unitStr) {
	case "d":
		return scaledHours(numStr, 24, "days unit 'd'")
	case "w":
		return scaledHours(numStr, 7*24, "weeks unit 'w'")
	default:
		d, err := time.ParseDuration(durationStr)
		if err != nil {
			return 0, fmt.Errorf("failed to parse duration '%s' using standard units: %w", durationStr, err)
		}
		return d, nil
	}
}

func scaledHours(numStr string, hoursPerUnit float64, unitDesc string) (time.Duration, error) {
	n, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number '%s' for %s: %w", numStr, unitDesc, err)
	}
	hours := n * hoursPerUnit
	d, err := time.ParseDuration(fmt.Sprintf("%fh", hours))
	if err != nil {
		return 0, fmt.Errorf("failed to parse calculated hours '%fh': %w", hours, err)
	}
	return d, nil
}
