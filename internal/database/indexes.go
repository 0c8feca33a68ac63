package database

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureRecordIndexes creates the secondary indexes of the record collection.
// Keys are the _id, so only the housekeeping field needs one.
func EnsureRecordIndexes(ctx context.Context, coll *mongo.Collection, log *logrus.Entry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	updatedAtIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "updatedAt", Value: -1}},
		Options: options.Index().SetName("updatedAt_index"),
	}

	log.Debug("EnsureRecordIndexes: creating updatedAt_index index")
	if _, err := coll.Indexes().CreateOne(ctx, updatedAtIndex); err != nil {
		log.WithError(err).Warn("EnsureRecordIndexes: updatedAt index error")
		return err
	}
	log.Debug("EnsureRecordIndexes: updatedAt_index index created")
	return nil
}
