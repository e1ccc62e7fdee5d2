package tools

import (
	"fmt"
	"strconv"
	"strings"
)

// The agent regularly passes numbers as strings, so every numeric tool
// parameter is declared as a string and parsed here. Parsing is strict:
// a non-numeric value is an error, never silently defaulted.

func parseFloat(name, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("param %q is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("param %q must be a number, got %q", name, raw)
	}
	return v, nil
}

func parsePositiveInt(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("param %q is required", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("param %q must be an integer, got %q", name, raw)
	}
	if v <= 0 {
		return 0, fmt.Errorf("param %q must be positive, got %d", name, v)
	}
	return v, nil
}

func parseIntDefault(name, raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("param %q must be an integer, got %q", name, raw)
	}
	return v, nil
}

func parseOptionalFloat(name, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("param %q must be a number, got %q", name, raw)
	}
	return &v, nil
}

func requireSymbol(name, raw string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(raw))
	if sym == "" {
		return "", fmt.Errorf("param %q is required", name)
	}
	return sym, nil
}
