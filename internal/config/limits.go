package config

import "fmt"

// Limits bounds the gateway's behavior.
type Limits struct {
	MaxRetries        int `yaml:"max_retries" validate:"min=0,max=10"`
	MaxTokens         int `yaml:"max_tokens" validate:"min=256,max=128000"`
	RequestsPerMinute int `yaml:"requests_per_minute" validate:"min=1,max=10000"`
	Burst             int `yaml:"burst" validate:"min=1,max=100"`
}

// DefaultLimits matches the analyzer's configured retry bound.
func DefaultLimits() Limits {
	return Limits{
		MaxRetries:        3,
		MaxTokens:         4096,
		RequestsPerMinute: 60,
		Burst:             10,
	}
}

// Validate applies bounds checks beyond struct tags.
func (l Limits) Validate() error {
	if l.Burst > l.RequestsPerMinute {
		return fmt.Errorf("burst %d exceeds requests per minute %d", l.Burst, l.RequestsPerMinute)
	}
	return nil
}
