package storage

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mongoRecord struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	Version   int64     `bson:"version"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoBackend stores one document per key in a single collection.
type MongoBackend struct {
	coll *mongo.Collection
}

func NewMongoBackend(coll *mongo.Collection) *MongoBackend {
	return &MongoBackend{coll: coll}
}

func (b *MongoBackend) Get(ctx context.Context, key string) (Record, error) {
	var doc mongoRecord
	err := b.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return Record{Key: doc.Key, Value: []byte(doc.Value), Version: doc.Version}, nil
}

func (b *MongoBackend) Put(ctx context.Context, key string, value []byte, expected int64) (int64, error) {
	now := time.Now()

	if expected == NoVersion {
		_, err := b.coll.InsertOne(ctx, mongoRecord{
			Key:       key,
			Value:     string(value),
			Version:   1,
			UpdatedAt: now,
		})
		if mongo.IsDuplicateKeyError(err) {
			return 0, ErrConflict
		}
		if err != nil {
			return 0, err
		}
		return 1, nil
	}

	filter := bson.M{"_id": key}
	if expected != AnyVersion {
		filter["version"] = expected
	}
	update := bson.M{
		"$set": bson.M{"value": string(value), "updatedAt": now},
		"$inc": bson.M{"version": int64(1)},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetUpsert(expected == AnyVersion)

	var doc mongoRecord
	err := b.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, b.missOrConflict(ctx, key)
	}
	if err != nil {
		return 0, err
	}
	return doc.Version, nil
}

func (b *MongoBackend) Delete(ctx context.Context, key string, expected int64) error {
	filter := bson.M{"_id": key}
	if expected != AnyVersion {
		filter["version"] = expected
	}

	res, err := b.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return b.missOrConflict(ctx, key)
	}
	return nil
}

func (b *MongoBackend) List(ctx context.Context, prefix string) ([]Record, error) {
	filter := bson.M{}
	if prefix != "" {
		filter["_id"] = bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := b.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]Record, 0)
	for cursor.Next(ctx) {
		var doc mongoRecord
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, Record{Key: doc.Key, Value: []byte(doc.Value), Version: doc.Version})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *MongoBackend) Ping(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return b.coll.Database().Client().Ping(checkCtx, readpref.Primary())
}

func (b *MongoBackend) Close(ctx context.Context) error {
	return b.coll.Database().Client().Disconnect(ctx)
}

func (b *MongoBackend) missOrConflict(ctx context.Context, key string) error {
	n, err := b.coll.CountDocuments(ctx, bson.M{"_id": key})
	if err != nil {
		return errors.Join(ErrConflict, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrConflict
}
