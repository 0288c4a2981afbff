package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix = "user:%d"
	// Posts are keyed by their public identifier since that is how
	// anonymous readers address them.
	PostKeyPrefix   = "post:%s"
	FlowOverviewKey = "flows:overview"
)

const (
	UserTTL         = 5 * time.Minute
	PostTTL         = 5 * time.Minute
	FlowOverviewTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(publicID string) string {
	return fmt.Sprintf(PostKeyPrefix, publicID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, publicID string) {
	Invalidate(ctx, PostKey(publicID))
}

func InvalidateFlowOverview(ctx context.Context) {
	Invalidate(ctx, FlowOverviewKey)
}
