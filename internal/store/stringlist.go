package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// DedupeStrings trims and deduplicates a slice of strings, preserving the
// order of first occurrence. Order matters here: callers persist ranked
// lists, not sets.
func DedupeStrings(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// LoadStringList reads a JSON string array from path.
// Missing file yields an empty list without error. Output is deduped but
// keeps its stored order.
func LoadStringList(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var arr []string
	if err := json.Unmarshal(b, &arr); err != nil {
		return nil, err
	}
	return DedupeStrings(arr), nil
}

// SaveStringList writes a JSON string array to path, creating parent dirs.
// Input is deduped before writing, order preserved.
func SaveStringList(path string, list []string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	arr := DedupeStrings(list)
	b, err := json.MarshalIndent(arr, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// PromoteFront loads the list at path, moves item to the front (inserting it
// if absent), truncates to max entries when max > 0, and saves the result.
func PromoteFront(path, item string, max int) ([]string, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return LoadStringList(path)
	}
	cur, err := LoadStringList(path)
	if err != nil {
		return nil, err
	}
	next := make([]string, 0, len(cur)+1)
	next = append(next, item)
	for _, s := range cur {
		if s != item {
			next = append(next, s)
		}
	}
	if max > 0 && len(next) > max {
		next = next[:max]
	}
	if err := SaveStringList(path, next); err != nil {
		return nil, err
	}
	return next, nil
}
