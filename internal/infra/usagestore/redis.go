package usagestore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"promo-engine/internal/infra"
	"promo-engine/internal/usecase/shared"
)

// Result codes shared between the Lua scripts and Go.
const (
	scriptReserved      = 1
	scriptLimitExceeded = 0
	scriptReleased      = 1
	scriptNothingToFree = 0
)

// reserveScript checks both counters against their limits and increments
// them in one atomic step. A limit of -1 means unlimited. Both keys carry the
// same hash tag so the script stays single-slot on a cluster.
var reserveScript = redis.NewScript(`
local used = tonumber(redis.call('GET', KEYS[1]) or '0')
local customerUsed = tonumber(redis.call('GET', KEYS[2]) or '0')
local limit = tonumber(ARGV[1])
local customerLimit = tonumber(ARGV[2])

if limit >= 0 and used >= limit then
    return 0
end
if customerLimit >= 0 and customerUsed >= customerLimit then
    return 0
end

redis.call('INCR', KEYS[1])
redis.call('INCR', KEYS[2])
return 1
`)

// releaseScript undoes one reservation. The per-customer counter gates the
// global decrement, which is what makes double release a no-op.
var releaseScript = redis.NewScript(`
local customerUsed = tonumber(redis.call('GET', KEYS[2]) or '0')
if customerUsed <= 0 then
    return 0
end
redis.call('DECR', KEYS[2])

local used = tonumber(redis.call('GET', KEYS[1]) or '0')
if used > 0 then
    redis.call('DECR', KEYS[1])
end
return 1
`)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func globalKey(promotionID uuid.UUID) string {
	return fmt.Sprintf("promo:usage:{%s}", promotionID)
}

func customerKey(promotionID uuid.UUID, customerID string) string {
	return fmt.Sprintf("promo:usage:{%s}:customer:%s", promotionID, customerID)
}

func limitArg(limit *int) int {
	if limit == nil {
		return -1
	}
	return *limit
}

func (s *RedisStore) CheckAvailable(ctx context.Context, check shared.UsageCheck) (bool, error) {
	counts, err := s.client.MGet(ctx, globalKey(check.PromotionID), customerKey(check.PromotionID, check.CustomerID)).Result()
	if err != nil {
		return false, infra.WrapRepoErr("failed to read usage counters", err)
	}

	if check.Limit != nil && parseCount(counts[0]) >= *check.Limit {
		return false, nil
	}
	if check.LimitPerCustomer != nil && parseCount(counts[1]) >= *check.LimitPerCustomer {
		return false, nil
	}
	return true, nil
}

func (s *RedisStore) Reserve(ctx context.Context, check shared.UsageCheck) error {
	keys := []string{globalKey(check.PromotionID), customerKey(check.PromotionID, check.CustomerID)}
	args := []interface{}{limitArg(check.Limit), limitArg(check.LimitPerCustomer)}

	result, err := reserveScript.Run(ctx, s.client, keys, args...).Result()
	if err != nil {
		return infra.WrapRepoErr("failed to run reserve script", err)
	}

	code, ok := result.(int64)
	if !ok {
		return infra.WrapRepoErr(fmt.Sprintf("unexpected reserve script result type: %T", result), nil)
	}
	switch code {
	case scriptReserved:
		return nil
	case scriptLimitExceeded:
		return infra.WrapRepoErr("promotion usage limit reached", nil, infra.KindLimitExceeded)
	default:
		return infra.WrapRepoErr(fmt.Sprintf("unknown reserve script result code: %d", code), nil)
	}
}

func (s *RedisStore) Release(ctx context.Context, promotionID uuid.UUID, customerID string) error {
	keys := []string{globalKey(promotionID), customerKey(promotionID, customerID)}

	result, err := releaseScript.Run(ctx, s.client, keys).Result()
	if err != nil {
		return infra.WrapRepoErr("failed to run release script", err)
	}

	if code, ok := result.(int64); !ok || (code != scriptReleased && code != scriptNothingToFree) {
		return infra.WrapRepoErr(fmt.Sprintf("unexpected release script result: %v", result), nil)
	}
	return nil
}

func parseCount(value interface{}) int {
	raw, ok := value.(string)
	if !ok {
		return 0
	}
	var count int
	if _, err := fmt.Sscanf(raw, "%d", &count); err != nil {
		return 0
	}
	return count
}
