package constants

import "time"

const (
	MatchCacheTTL = 5 * time.Minute
)

const (
	ExternalAPITimeout = 15 * time.Second
)

const (
	HTTPMaxConnsPerHost     = 16
	HTTPMaxIdleConnDuration = 1 * time.Minute
	HTTPErrorBodyLimit      = 256
)

const (
	ServerReadTimeout = 10 * time.Second
	ShutdownTimeout   = 5 * time.Second
)

const (
	// SteamEpoch separates Steam64 profile ids from account ids.
	SteamEpoch int64 = 76561197960265728

	MatchFetchLimit = 200
	DefaultTopN     = 3
	MaxTopN         = 50
)
