package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ReplayGuard marks accepted TOTP codes as used so a code cannot
// authenticate twice inside its acceptance window. SETNX gives the
// first-use check and the TTL lets keys expire with the window.
type ReplayGuard struct {
	client *Client
	prefix string // "totp_used:"
}

func NewReplayGuard(c *Client) *ReplayGuard {
	return &ReplayGuard{
		client: c,
		prefix: "totp_used:",
	}
}

func (g *ReplayGuard) MarkUsed(ctx context.Context, userID, code string, ttl time.Duration) (bool, error) {
	userID = strings.TrimSpace(userID)
	code = strings.TrimSpace(code)
	if userID == "" || code == "" {
		return false, errors.New("replay guard: empty user id or code")
	}
	if g.client == nil || g.client.rdb == nil {
		return false, errors.New("replay guard not configured")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}

	key := g.prefix + userID + ":" + code
	first, err := g.client.rdb.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("replay guard: %w", err)
	}
	return first, nil
}
