package store

import (
	"context"
	"fmt"
	"time"

	"github.com/theleywin/Backend-Skill-Barter/src/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const messagesCollection = "messages"

// MongoMessageStore keeps messages in a MongoDB collection.
type MongoMessageStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoMessageStore connects to uri, pings the server and makes sure the
// history index exists
func NewMongoMessageStore(ctx context.Context, uri, database string) (*MongoMessageStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	collection := client.Database(database).Collection(messagesCollection)
	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "sender", Value: 1}, {Key: "recipient", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create message index: %w", err)
	}

	return &MongoMessageStore{client: client, collection: collection}, nil
}

func (s *MongoMessageStore) Create(ctx context.Context, msg *models.Message) error {
	if _, err := s.collection.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *MongoMessageStore) Between(ctx context.Context, a, b uint) ([]models.Message, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"sender": a, "recipient": b},
			bson.M{"sender": b, "recipient": a},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return messages, nil
}

// Close disconnects the underlying client
func (s *MongoMessageStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
