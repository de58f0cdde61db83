package nlu

import (
	"context"
	"time"
)

// TimeoutLLMClient bounds every completion with a deadline so a stalled
// model call cannot hold a conversation turn open indefinitely.
type TimeoutLLMClient struct {
	inner   LLMClient
	timeout time.Duration
}

// NewTimeoutLLMClient wraps a client with a per-call timeout. A
// non-positive timeout returns the client unwrapped.
func NewTimeoutLLMClient(inner LLMClient, timeout time.Duration) LLMClient {
	if timeout <= 0 {
		return inner
	}
	return &TimeoutLLMClient{inner: inner, timeout: timeout}
}

var _ LLMClient = (*TimeoutLLMClient)(nil)

func (c *TimeoutLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.inner.Complete(ctx, req)
}
