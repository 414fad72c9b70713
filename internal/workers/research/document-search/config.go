// internal/workers/research/document-search/config.go
package documentsearch

import "time"

type Config struct {
	IndexName  string
	Timeout    time.Duration
	MaxResults int
}

func LoadConfig() *Config {
	return &Config{
		IndexName:  "research-documents",
		Timeout:    10 * time.Second,
		MaxResults: 5,
	}
}
