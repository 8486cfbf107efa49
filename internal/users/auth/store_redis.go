// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/clipstream/internal/platform/constants"
	"github.com/taibuivan/clipstream/internal/platform/dberr"
)

// compareAndSetScript swaps KEYS[1] from ARGV[1] to ARGV[2] with a PX of ARGV[3].
// A missing key reads as false and never equals ARGV[1].
const compareAndSetScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
  return 1
end
return 0
`

var compareAndSetLua = redis.NewScript(compareAndSetScript)

// # Refresh Token Repository

// RedisRefreshTokenRepository implements [RefreshTokenRepository] with one key
// per account. Keys expire together with the refresh token they hold.
type RedisRefreshTokenRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRefreshTokenRepository creates a new Redis-backed RefreshTokenRepository.
func NewRefreshTokenRepository(client redis.UniversalClient, ttl time.Duration) *RedisRefreshTokenRepository {
	return &RedisRefreshTokenRepository{client: client, ttl: ttl}
}

/*
SetRefreshToken stores the digest under the account key with the refresh TTL.

Parameters:
  - context: context.Context
  - accountID: string
  - digest: string

Returns:
  - error: Execution errors
*/
func (repository *RedisRefreshTokenRepository) SetRefreshToken(context context.Context, accountID, digest string) error {
	if err := repository.client.Set(context, refreshTokenKey(accountID), digest, repository.ttl).Err(); err != nil {
		return dberr.Wrap(err, "redis_refresh_token_set_failed")
	}
	return nil
}

/*
CompareAndSetRefreshToken rotates the digest inside a Lua script.

Description: Redis runs a script without interleaving other commands, so the
GET and SET below form one atomic step.

Parameters:
  - context: context.Context
  - accountID: string
  - expected: string
  - next: string

Returns:
  - bool: true if the stored digest equalled expected and was replaced
  - error: Execution errors
*/
func (repository *RedisRefreshTokenRepository) CompareAndSetRefreshToken(context context.Context, accountID, expected, next string) (bool, error) {
	if expected == "" {
		return false, nil
	}

	swapped, err := compareAndSetLua.Run(
		context,
		repository.client,
		[]string{refreshTokenKey(accountID)},
		expected,
		next,
		repository.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, dberr.Wrap(err, "redis_refresh_token_cas_failed")
	}

	return swapped == 1, nil
}

/*
ClearRefreshToken deletes the account key.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisRefreshTokenRepository) ClearRefreshToken(context context.Context, accountID string) error {
	if err := repository.client.Del(context, refreshTokenKey(accountID)).Err(); err != nil {
		return dberr.Wrap(err, "redis_refresh_token_delete_failed")
	}
	return nil
}

func refreshTokenKey(accountID string) string {
	return constants.RedisPrefixRefreshToken + accountID
}
