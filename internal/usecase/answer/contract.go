package answer

import (
	"context"

	domanswer "github.com/MehrozAli/MetricTesting/internal/domain/answer"
)

// Generator defines the chat-completion contract.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
	GenerateStream(ctx context.Context, system, user string) (domanswer.Stream, error)
}
