package generate

import (
	"context"
	"errors"
)

var ErrNoAPIKey = errors.New("generator api key is empty")

// Generator produces the message body for one slot. Implementations are
// fallible and side-effecting; the pipeline makes exactly one attempt per
// claimed slot and records failures instead of retrying.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}
