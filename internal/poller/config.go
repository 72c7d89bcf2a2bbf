package poller

import (
	"github.com/agence-immo/agence/internal/config"
)

// OptionsFromConfig returns poller options for poll_interval and poll_discard_stale.
func OptionsFromConfig() []Option {
	return []Option{
		WithInterval(config.GetDuration("poll_interval", DefaultInterval)),
		WithDiscardStale(config.GetBool("poll_discard_stale", true)),
	}
}
