// Package datasource holds the process-wide baseline data source.
package datasource

import (
	"fmt"
	"strings"
)

// Mode selects where resource reads go by default.
type Mode string

const (
	// ModeMock reads local JSON assets only and never touches the network.
	ModeMock Mode = "mock"
	// ModeAPI reads the live API, guarded by the fallback manager.
	ModeAPI Mode = "api"
)

// Source tells the caller where a result actually came from.
type Source string

const (
	SourceAPI      Source = "api"
	SourceMock     Source = "mock"
	SourceFallback Source = "fallback"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeMock:
		return ModeMock, nil
	case ModeAPI:
		return ModeAPI, nil
	default:
		return "", fmt.Errorf("unknown data source %q (valid options: mock, api)", s)
	}
}

func (m Mode) String() string {
	return string(m)
}
