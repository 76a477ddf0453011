// Package parser turns gamemodels3d vehicle pages into core.Ship values.
// Pages embed their data as JSON assigned to javascript variables, so
// parsing is: find the variable line, strip the assignment, decode.
package parser

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Fetcher is the downloading side of ingestion. Satisfied by fetch.Client.
type Fetcher interface {
	Get(url string) (string, error)
	PostForm(url, view, params string) (string, error)
}

// Parser ingests remote vehicle data into simulation models.
type Parser struct {
	fetcher Fetcher
	baseURL string
	logger  *slog.Logger
}

// New creates a parser downloading through fetcher, relative to baseURL.
func New(fetcher Fetcher, baseURL string, logger *slog.Logger) *Parser {
	return &Parser{
		fetcher: fetcher,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// jsVarPayload extracts the JSON payload assigned to a javascript variable.
// Exactly one line of the page must mention the variable.
func jsVarPayload(page, name string) (string, error) {
	var matches []string
	for _, line := range strings.Split(page, "\n") {
		if strings.Contains(line, name) {
			matches = append(matches, line)
		}
	}
	if len(matches) != 1 {
		return "", fmt.Errorf("expected exactly one %q line, found %d", name, len(matches))
	}

	_, payload, found := strings.Cut(matches[0], "=")
	if !found {
		return "", fmt.Errorf("no assignment on %q line", name)
	}
	payload = strings.TrimSpace(payload)
	payload = strings.TrimSuffix(payload, ";")
	payload = strings.Trim(payload, "'\"")
	return payload, nil
}

// floatField reads a required numeric field from a decoded JSON object.
func floatField(obj map[string]any, key string) (float64, error) {
	raw, ok := obj[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	f, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", key)
	}
	return f, nil
}

// sortedKeys returns a decoded JSON object's keys in stable order, so
// ingestion output does not depend on map iteration.
func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// stringField reads a required string field from a decoded JSON object.
func stringField(obj map[string]any, key string) (string, error) {
	raw, ok := obj[key]
	if !ok {
		return "", fmt.Errorf("missing field %q", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("field %q is not a string", key)
	}
	return s, nil
}
