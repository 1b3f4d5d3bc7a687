package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"tokenrelay/internal/domain"
)

const (
	redisUserKeyPrefix    = "tokenrelay:user:"
	redisEmailKeyPrefix   = "tokenrelay:email:"
	redisRenewalKeyPrefix = "tokenrelay:renewal:"
	redisNextIDKey        = "tokenrelay:user_seq"
)

// KEYS: email index, user hash. ARGV: user id, renewal index key or "",
// then field/value pairs for the hash. The email check and all writes run
// in one script, so a failed create leaves nothing behind.
const createUserScript = `
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[2], unpack(ARGV, 3))
redis.call('SET', KEYS[1], ARGV[1])
if ARGV[2] ~= '' then
  redis.call('SET', ARGV[2], ARGV[1])
end
return 1
`

var createUserLua = redis.NewScript(createUserScript)

// KEYS: user hash. ARGV: new token or "" to clear, user id, updated_at,
// renewal key prefix. Returns 0 when the user does not exist.
const setRenewalScript = `
if redis.call('EXISTS', KEYS[1]) == 0 then
  return 0
end
local old = redis.call('HGET', KEYS[1], 'renewal_token')
if old then
  redis.call('DEL', ARGV[4] .. old)
end
if ARGV[1] ~= '' then
  redis.call('HSET', KEYS[1], 'renewal_token', ARGV[1])
  redis.call('SET', ARGV[4] .. ARGV[1], ARGV[2])
else
  redis.call('HDEL', KEYS[1], 'renewal_token')
end
redis.call('HSET', KEYS[1], 'updated_at', ARGV[3])
return 1
`

var setRenewalLua = redis.NewScript(setRenewalScript)

// KEYS: user hash, renewal index key. ARGV: expected token, updated_at.
// Returns 1 when the token was still current and got cleared.
const clearRenewalScript = `
local current = redis.call('HGET', KEYS[1], 'renewal_token')
if current ~= ARGV[1] then
  return 0
end
redis.call('DEL', KEYS[2])
redis.call('HDEL', KEYS[1], 'renewal_token')
redis.call('HSET', KEYS[1], 'updated_at', ARGV[2])
return 1
`

var clearRenewalLua = redis.NewScript(clearRenewalScript)

// RedisUserRepository keeps users in hashes with secondary keys for the email
// and for the stored renewal token. It satisfies the same contract as
// UserRepository.
type RedisUserRepository struct {
	rdb *redis.Client
}

func NewRedisUserRepository(rdb *redis.Client) *RedisUserRepository {
	return &RedisUserRepository{rdb: rdb}
}

// ConnectRedis parses a redis:// URL and pings the server.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func userKey(id int64) string        { return redisUserKeyPrefix + strconv.FormatInt(id, 10) }
func emailKey(email string) string   { return redisEmailKeyPrefix + email }
func renewalKey(token string) string { return redisRenewalKeyPrefix + token }

func (r *RedisUserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)

	exists, err := r.rdb.Exists(ctx, emailKey(u.Email)).Result()
	if err != nil {
		return err
	}
	if exists > 0 {
		return ErrEmailExists
	}

	id, err := r.rdb.Incr(ctx, redisNextIDKey).Result()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	created := *u
	created.ID = id
	created.CreatedAt, created.UpdatedAt = now, now

	indexKey := ""
	if created.HasRenewalToken() {
		indexKey = renewalKey(*created.RenewalToken)
	}
	args := []any{id, indexKey}
	for field, value := range userFields(&created) {
		args = append(args, field, value)
	}

	ok, err := createUserLua.Run(ctx, r.rdb, []string{emailKey(created.Email), userKey(id)}, args...).Int()
	if err != nil {
		return err
	}
	if ok == 0 {
		return ErrEmailExists
	}

	*u = created
	return nil
}

func (r *RedisUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	vals, err := r.rdb.HGetAll(ctx, userKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, ErrNotFound
	}
	return userFromFields(vals)
}

func (r *RedisUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, err := r.lookupID(ctx, emailKey(normalizeEmail(email)))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *RedisUserRepository) GetByRenewalToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	id, err := r.lookupID(ctx, renewalKey(token))
	if err != nil {
		return nil, err
	}
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// the index key may outlive an overwrite that raced with this read
	if !u.HasRenewalToken() || *u.RenewalToken != token {
		return nil, ErrNotFound
	}
	return u, nil
}

// SetRenewalToken replaces the user's token and its index key in one script.
// Concurrent writers never conflict; the last one to run wins.
func (r *RedisUserRepository) SetRenewalToken(ctx context.Context, userID int64, token *string) error {
	next := ""
	if token != nil {
		next = *token
	}

	ok, err := setRenewalLua.Run(ctx, r.rdb, []string{userKey(userID)},
		next, userID, time.Now().UTC().Format(time.RFC3339Nano), redisRenewalKeyPrefix,
	).Int()
	if err != nil {
		return fmt.Errorf("set renewal token for user %d: %w", userID, err)
	}
	if ok == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RedisUserRepository) ClearRenewalTokenIf(ctx context.Context, userID int64, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	cleared, err := clearRenewalLua.Run(ctx, r.rdb, []string{userKey(userID), renewalKey(token)},
		token, time.Now().UTC().Format(time.RFC3339Nano),
	).Int()
	if err != nil {
		return false, err
	}
	return cleared == 1, nil
}

func (r *RedisUserRepository) ListWithRenewalTokens(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	iter := r.rdb.Scan(ctx, 0, redisRenewalKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		token := iter.Val()[len(redisRenewalKeyPrefix):]
		u, err := r.GetByRenewalToken(ctx, token)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *RedisUserRepository) lookupID(ctx context.Context, key string) (int64, error) {
	raw, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt index %s: %w", key, err)
	}
	return id, nil
}

func userFields(u *domain.User) map[string]any {
	fields := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"secret":     u.Secret,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	if u.HasRenewalToken() {
		fields["renewal_token"] = *u.RenewalToken
	}
	return fields
}

func userFromFields(vals map[string]string) (*domain.User, error) {
	id, err := strconv.ParseInt(vals["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt user record: %w", err)
	}
	u := &domain.User{
		ID:     id,
		Email:  vals["email"],
		Name:   vals["name"],
		Secret: vals["secret"],
	}
	if t, err := time.Parse(time.RFC3339Nano, vals["created_at"]); err == nil {
		u.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, vals["updated_at"]); err == nil {
		u.UpdatedAt = t
	}
	if tok := vals["renewal_token"]; tok != "" {
		u.RenewalToken = &tok
	}
	return u, nil
}
