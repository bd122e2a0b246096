package catalog

import "strings"

// Kind names understood by Config.Targets.
const (
	KindCharacter = "character"
	KindLocation  = "location"
	KindEpisode   = "episode"
)

// Config holds configuration for the remote catalog API.
type Config struct {
	// BaseURL is the API root, e.g. https://rickandmortyapi.com/api.
	BaseURL string `mapstructure:"base_url" default:"https://rickandmortyapi.com/api"`
	// CharacterPath is the character collection endpoint relative to BaseURL.
	CharacterPath string `mapstructure:"character_path" default:"/character"`
	// CharacterPages is the number of character pages to fetch; 0 discovers it from info.pages.
	CharacterPages int `mapstructure:"character_pages" default:"0"`
	// LocationPath is the location collection endpoint relative to BaseURL.
	LocationPath string `mapstructure:"location_path" default:"/location"`
	// LocationPages is the number of location pages to fetch; 0 discovers it from info.pages.
	LocationPages int `mapstructure:"location_pages" default:"0"`
	// EpisodePath is the episode collection endpoint relative to BaseURL.
	EpisodePath string `mapstructure:"episode_path" default:"/episode"`
	// EpisodePages is the number of episode pages to fetch; 0 discovers it from info.pages.
	EpisodePages int `mapstructure:"episode_pages" default:"0"`

	// TimeoutSeconds bounds a single HTTP request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// Concurrency is the number of pages fetched in parallel.
	Concurrency int `mapstructure:"concurrency" default:"4"`
	// PageRetries is the number of extra attempts for a page failing with a retryable error.
	PageRetries int `mapstructure:"page_retries" default:"1"`
	// RetryDelayMs is the base of the linear backoff between page attempts.
	RetryDelayMs int `mapstructure:"retry_delay_ms" default:"500"`
	// RateLimitPerSecond caps outgoing requests; 0 disables the limiter.
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" default:"10"`
	// StrictPages makes a single failed page fail the whole fetch.
	StrictPages bool `mapstructure:"strict_pages" default:"false"`
	// BreakerMaxFailures is the number of consecutive failures opening the circuit breaker.
	BreakerMaxFailures int `mapstructure:"breaker_max_failures" default:"5"`
	// BreakerTimeoutSeconds is how long the breaker stays open before probing again.
	BreakerTimeoutSeconds int `mapstructure:"breaker_timeout_seconds" default:"30"`
	// LockTTLSeconds is how long a sync lock left by another process is honored before it is taken over.
	LockTTLSeconds int `mapstructure:"lock_ttl_seconds" default:"3600"`
	// MaxBodyBytes bounds a single response body; larger responses fail instead of being cut.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" default:"33554432"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"catalog-sync/1.0"`
}

// Target is a configured collection endpoint and its page count.
type Target struct {
	// Endpoint is the absolute collection URL without query.
	Endpoint string
	// Pages is the number of pages to fetch; 0 means discover.
	Pages int
}

// Targets returns the configured endpoint of every kind. Entries are not validated.
func (c Config) Targets() map[string]Target {
	return map[string]Target{
		KindCharacter: {Endpoint: joinURL(c.BaseURL, c.CharacterPath), Pages: c.CharacterPages},
		KindLocation:  {Endpoint: joinURL(c.BaseURL, c.LocationPath), Pages: c.LocationPages},
		KindEpisode:   {Endpoint: joinURL(c.BaseURL, c.EpisodePath), Pages: c.EpisodePages},
	}
}

func joinURL(base, path string) string {
	if base == "" || path == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
