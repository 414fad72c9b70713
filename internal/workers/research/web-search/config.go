// internal/workers/research/web-search/config.go
package websearch

import "time"

type Config struct {
	BaseURL           string
	Timeout           time.Duration
	DefaultMaxResults int
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:           "https://s.jina.ai/",
		Timeout:           30 * time.Second,
		DefaultMaxResults: 5,
	}
}
