package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type counter struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// formatOrderNumber renders ORD-YYMM-NNNN. The sequence part is padded
// to four digits and widens past 9999.
func formatOrderNumber(now time.Time, seq int64) string {
	return fmt.Sprintf("ORD-%s-%04d", now.Format("0601"), seq)
}

// NextOrderNumber hands out the next human-readable order number,
// e.g. ORD-2412-0001. The sequence restarts each month; the counters
// collection upsert is atomic so concurrent creates never collide.
func NextOrderNumber(ctx context.Context, db *mongo.Database, now time.Time) (string, error) {
	key := "order:" + now.Format("0601")

	var c counter
	err := db.Collection("counters").FindOneAndUpdate(
		ctx,
		bson.M{"_id": key},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return "", err
	}

	return formatOrderNumber(now, c.Seq), nil
}
