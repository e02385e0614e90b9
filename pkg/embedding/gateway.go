package embedding

import (
	"context"
	"strings"
	"time"

	"ai-journaling-be/internal/apperr"
	"ai-journaling-be/internal/pkg/logger"
)

// Gateway wraps a Provider with input validation, bounded retries and
// output normalization. Retries apply only to network-class failures;
// auth, quota and malformed-request errors surface immediately.
type Gateway struct {
	provider    Provider
	logger      logger.ILogger
	maxAttempts int
	backoff     time.Duration
}

func NewGateway(provider Provider, log logger.ILogger, maxAttempts int, backoff time.Duration) *Gateway {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Gateway{
		provider:    provider,
		logger:      log,
		maxAttempts: maxAttempts,
		backoff:     backoff,
	}
}

func (g *Gateway) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, apperr.New(apperr.CodeInvalidInput, "cannot embed empty text")
	}

	var lastErr error
	backoff := g.backoff

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		values, err := g.provider.Generate(ctx, trimmed, taskType)
		if err == nil {
			return normalizeVector(values), nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !apperr.Retriable(err) {
			return nil, err
		}

		g.logger.Warn("embedding.gateway", "embedding attempt failed, retrying", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})

		if attempt < g.maxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	return nil, apperr.Wrap(apperr.CodeEmbeddingUnavailable,
		"embedding provider unavailable after retries", lastErr)
}
