package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	redisValueField   = "v"
	redisVersionField = "ver"
)

// RedisBackend stores each key as a hash {v, ver}. CAS runs under WATCH.
type RedisBackend struct {
	rdb *redis.Client
}

func NewRedisBackend(rdb *redis.Client) *RedisBackend {
	return &RedisBackend{rdb: rdb}
}

func (b *RedisBackend) Get(ctx context.Context, key string) (Record, error) {
	fields, err := b.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return Record{}, err
	}
	return decodeRedisHash(key, fields)
}

func (b *RedisBackend) Put(ctx context.Context, key string, value []byte, expected int64) (int64, error) {
	var next int64
	err := b.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, exists, err := redisVersion(ctx, tx, key)
		if err != nil {
			return err
		}
		if !versionMatches(current, exists, expected) {
			if expected > 0 && !exists {
				return ErrNotFound
			}
			return ErrConflict
		}
		next = current + 1
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, redisValueField, value, redisVersionField, next)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return 0, ErrConflict
	}
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (b *RedisBackend) Delete(ctx context.Context, key string, expected int64) error {
	err := b.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, exists, err := redisVersion(ctx, tx, key)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		if expected != AnyVersion && current != expected {
			return ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	return err
}

func (b *RedisBackend) List(ctx context.Context, prefix string) ([]Record, error) {
	keys := make([]string, 0)
	iter := b.rdb.Scan(ctx, 0, escapeGlob(prefix)+"*", 200).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)

	out := make([]Record, 0, len(keys))
	for _, key := range keys {
		fields, err := b.rdb.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		rec, err := decodeRedisHash(key, fields)
		if errors.Is(err, ErrNotFound) {
			// deleted between SCAN and HGETALL
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}

func (b *RedisBackend) Close(context.Context) error {
	return b.rdb.Close()
}

func redisVersion(ctx context.Context, tx *redis.Tx, key string) (int64, bool, error) {
	ver, err := tx.HGet(ctx, key, redisVersionField).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return ver, true, nil
}

func decodeRedisHash(key string, fields map[string]string) (Record, error) {
	if len(fields) == 0 {
		return Record{}, ErrNotFound
	}
	raw, ok := fields[redisVersionField]
	if !ok {
		return Record{}, ErrCorrupt
	}
	ver, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: version %q", ErrCorrupt, raw)
	}
	return Record{Key: key, Value: []byte(fields[redisValueField]), Version: ver}, nil
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
