package schedule

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DefaultDailyHourRate is the hours an assignee books per business day.
const DefaultDailyHourRate = 5.0

// DefaultSize is given to tickets created without a size.
const DefaultSize = "M"

// SizeTable maps a size key to its length in business days.
type SizeTable map[string]float64

// DefaultSizes returns a fresh copy of the standard size table.
func DefaultSizes() SizeTable {
	return SizeTable{
		"S":   1,
		"M":   2,
		"L":   5,
		"XL":  10,
		"XXL": 15,
	}
}

// Days resolves key, failing with *InvalidSizeError when it is unknown.
func (t SizeTable) Days(key string) (float64, error) {
	days, ok := t[key]
	if !ok || days <= 0 || math.IsNaN(days) || math.IsInf(days, 0) {
		return 0, &InvalidSizeError{Size: key}
	}
	return days, nil
}

// With returns a copy of the table with key registered as days long.
func (t SizeTable) With(key string, days float64) (SizeTable, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("size key must not be empty")
	}
	if !(days > 0) || math.IsInf(days, 0) {
		return nil, fmt.Errorf("size %s: days must be positive, got %v", key, days)
	}
	out := make(SizeTable, len(t)+1)
	for k, v := range t {
		out[k] = v
	}
	out[key] = days
	return out, nil
}

// Keys lists sizes from shortest to longest, ties broken by name.
func (t SizeTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if t[keys[i]] != t[keys[j]] {
			return t[keys[i]] < t[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Config is the injected configuration of the projection engine.
type Config struct {
	Sizes         SizeTable
	DailyHourRate float64
}

// DefaultConfig returns the standard sizes at DefaultDailyHourRate.
func DefaultConfig() Config {
	return Config{Sizes: DefaultSizes(), DailyHourRate: DefaultDailyHourRate}
}

func (c Config) hourRate() float64 {
	if c.DailyHourRate > 0 {
		return c.DailyHourRate
	}
	return DefaultDailyHourRate
}

func (c Config) sizes() SizeTable {
	if c.Sizes == nil {
		return DefaultSizes()
	}
	return c.Sizes
}
