package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimited spaces out requests to a ChatStreamer. Waiting honours the
// request context, so a deadline turns into an error instead of a hang.
type RateLimited struct {
	next    ChatStreamer
	limiter *rate.Limiter
}

// NewRateLimited allows perMinute requests per minute with a burst of one.
// A non-positive perMinute disables limiting.
func NewRateLimited(next ChatStreamer, perMinute int) *RateLimited {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(limit, 1)}
}

func (r *RateLimited) StreamChat(ctx context.Context, messages []Message) (ChatStream, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return r.next.StreamChat(ctx, messages)
}
