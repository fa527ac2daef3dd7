package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfman30/robotics-consultant/pkg/logging"
)

// NamedLLMClient labels a provider for logs.
type NamedLLMClient struct {
	Name   string
	Client LLMClient
}

// FallbackLLMClient tries each provider in order and returns the first
// successful completion.
type FallbackLLMClient struct {
	clients []NamedLLMClient
	logger  *logging.Logger
}

// NewFallbackLLMClient drops nil clients. With a single client the chain
// behaves exactly like that client.
func NewFallbackLLMClient(logger *logging.Logger, clients ...NamedLLMClient) *FallbackLLMClient {
	if logger == nil {
		logger = logging.Default()
	}
	kept := make([]NamedLLMClient, 0, len(clients))
	for _, c := range clients {
		if c.Client != nil {
			kept = append(kept, c)
		}
	}
	return &FallbackLLMClient{clients: kept, logger: logger}
}

// Len reports how many providers are configured.
func (c *FallbackLLMClient) Len() int {
	return len(c.clients)
}

func (c *FallbackLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	if len(c.clients) == 0 {
		return LLMResponse{}, ErrStrategyUnavailable
	}
	var errs []error
	for i, named := range c.clients {
		resp, err := named.Client.Complete(ctx, req)
		if err == nil {
			if i > 0 {
				c.logger.Info("fallback LLM succeeded", "provider", named.Name, "attempt", i+1)
			}
			return resp, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", named.Name, err))
		if ctx.Err() != nil {
			break
		}
		c.logger.Warn("LLM provider failed",
			"provider", named.Name,
			"error", err.Error(),
			"remaining", len(c.clients)-i-1,
		)
	}
	return LLMResponse{}, errors.Join(errs...)
}
