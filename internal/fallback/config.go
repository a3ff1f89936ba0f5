package fallback

import (
	"encoding/json"
	"slices"
	"time"
)

const (
	DefaultThreshold = 3
	DefaultDuration  = 5 * time.Minute
)

// Config controls when the manager degrades to local data.
type Config struct {
	EnableAutoFallback bool
	FallbackThreshold  int
	FallbackDuration   time.Duration
	ExcludeErrorTypes  []ErrorKind
}

// ConfigUpdate is a partial Config. Nil fields are left unchanged.
type ConfigUpdate struct {
	EnableAutoFallback *bool
	FallbackThreshold  *int
	FallbackDuration   *time.Duration
	ExcludeErrorTypes  []ErrorKind
}

// DefaultConfig returns threshold 3, duration 5 minutes, client errors excluded.
func DefaultConfig() Config {
	return Config{
		EnableAutoFallback: true,
		FallbackThreshold:  DefaultThreshold,
		FallbackDuration:   DefaultDuration,
		ExcludeErrorTypes:  []ErrorKind{KindClient},
	}
}

// WithDefaults merges u onto DefaultConfig.
func WithDefaults(u ConfigUpdate) Config {
	return DefaultConfig().Merge(u)
}

// Merge returns a copy of c with the non-nil fields of u applied.
// Non-positive thresholds and durations are ignored.
func (c Config) Merge(u ConfigUpdate) Config {
	out := c.clone()
	if u.EnableAutoFallback != nil {
		out.EnableAutoFallback = *u.EnableAutoFallback
	}
	if u.FallbackThreshold != nil && *u.FallbackThreshold > 0 {
		out.FallbackThreshold = *u.FallbackThreshold
	}
	if u.FallbackDuration != nil && *u.FallbackDuration > 0 {
		out.FallbackDuration = *u.FallbackDuration
	}
	if u.ExcludeErrorTypes != nil {
		out.ExcludeErrorTypes = slices.Clone(u.ExcludeErrorTypes)
	}
	return out
}

// Excludes reports whether failures of kind k are ignored for degradation.
func (c Config) Excludes(k ErrorKind) bool {
	return slices.Contains(c.ExcludeErrorTypes, k)
}

func (c Config) clone() Config {
	c.ExcludeErrorTypes = slices.Clone(c.ExcludeErrorTypes)
	return c
}

// MarshalJSON reports the duration in milliseconds for status displays.
func (c Config) MarshalJSON() ([]byte, error) {
	excluded := c.ExcludeErrorTypes
	if excluded == nil {
		excluded = []ErrorKind{}
	}
	return json.Marshal(struct {
		EnableAutoFallback bool        `json:"enableAutoFallback"`
		FallbackThreshold  int         `json:"fallbackThreshold"`
		FallbackDurationMs int64       `json:"fallbackDurationMs"`
		ExcludeErrorTypes  []ErrorKind `json:"excludeErrorTypes"`
	}{c.EnableAutoFallback, c.FallbackThreshold, c.FallbackDuration.Milliseconds(), excluded})
}
