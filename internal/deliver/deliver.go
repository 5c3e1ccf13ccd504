// Package deliver pushes finished messages to the user's device.
//
// Two drivers exist: Pushover (the default) and Telegram. Both make a
// single attempt per message; retry policy belongs to the caller, and for
// scheduled slots there is none, a failed send stays consumed.
package deliver

import (
	"context"
	"fmt"
	"strings"

	"rosebot/internal/config"
	"rosebot/pkg/logx"
)

// Status describes the outcome of one delivery attempt.
type Status struct {
	Success bool
	// Detail is a short human-readable note (provider status, error text).
	Detail string
}

// Deliverer sends one message. Limit reports the provider's maximum
// message length in runes; callers truncate with Truncate before sending.
type Deliverer interface {
	Deliver(ctx context.Context, text, title string) (Status, error)
	Limit() int
}

// Open selects a delivery driver from config.
func Open(cfg config.DeliveryConfig, log logx.Logger) (Deliverer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "pushover":
		return NewPushover(cfg.Pushover, log)
	case "telegram":
		return NewTelegram(cfg.Telegram, log)
	default:
		return nil, fmt.Errorf("deliver: unknown driver %q", cfg.Driver)
	}
}

// Truncate cuts s to at most limit runes. When a sentence boundary ('.')
// exists past the halfway point of the window, the cut lands just after it;
// otherwise the text is hard-cut and terminated with an ellipsis. Strings
// already within the limit come back unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	window := rs[:limit]
	if idx := lastIndexRune(window, '.'); idx > limit/2 {
		return string(window[:idx+1])
	}
	head := strings.TrimRight(string(rs[:limit-1]), " \t\n")
	return head + "…"
}

func lastIndexRune(rs []rune, r rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == r {
			return i
		}
	}
	return -1
}
