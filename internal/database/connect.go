package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"noirstore/internal/config"
	"noirstore/internal/storage"
)

// Connect opens a MongoDB client and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo connection uri is empty")
	}
	opts := options.Client().ApplyURI(uri).
		SetMaxPoolSize(50).
		SetConnectTimeout(5 * time.Second).
		SetSocketTimeout(10 * time.Second)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
	defer cancelPing()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// ConnectRedis opens a Redis client and verifies it with PING.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return rdb, nil
}

// OpenBackend builds the storage backend selected by cfg.
func OpenBackend(ctx context.Context, cfg config.Config, log *logrus.Entry) (storage.Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		client, err := Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		coll := client.Database(cfg.DBName).Collection(cfg.MongoCollection)
		if err := EnsureRecordIndexes(ctx, coll, log); err != nil {
			log.WithError(err).Warn("record index bootstrap failed")
		}
		log.WithFields(logrus.Fields{"db": cfg.DBName, "collection": cfg.MongoCollection}).Info("MongoDB connected")
		return storage.NewMongoBackend(coll), nil

	case config.BackendRedis:
		rdb, err := ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		log.WithField("addr", cfg.RedisAddr).Info("Redis connected")
		return storage.NewRedisBackend(rdb), nil

	default:
		log.Info("using in-memory storage")
		return storage.NewMemoryBackend(), nil
	}
}
