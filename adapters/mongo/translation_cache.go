package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/habla-ai/habla/domain"
	"github.com/habla-ai/habla/domain/entities"
	"github.com/habla-ai/habla/domain/repositories"
)

const translationsCollection = "translations"

// TranslationCache implements repositories.TranslationCache on MongoDB.
// Records are keyed by the unique (text, target_lang) pair; writes are
// upserts, so re-translating an existing pair overwrites it.
type TranslationCache struct {
	uri    string
	dbName string
	logger *zap.Logger

	client     *Client
	collection *mongo.Collection
}

// Ensure TranslationCache implements the TranslationCache interface
var _ repositories.TranslationCache = (*TranslationCache)(nil)

// NewTranslationCache creates an unconnected cache. Connect must succeed
// before Lookup or Store may be called.
func NewTranslationCache(uri, dbName string, logger *zap.Logger) *TranslationCache {
	return &TranslationCache{
		uri:    uri,
		dbName: dbName,
		logger: logger,
	}
}

// Connect establishes the MongoDB connection and ensures the unique index
// on (text, target_lang) exists.
func (c *TranslationCache) Connect(ctx context.Context) error {
	client, err := Dial(ctx, c.uri, c.dbName, c.logger)
	if err != nil {
		return err
	}

	collection := client.Database.Collection(translationsCollection)

	indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err = collection.Indexes().CreateOne(indexCtx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "text", Value: 1},
			{Key: "target_lang", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		client.Close(ctx)
		return fmt.Errorf("failed to create translations index: %w", err)
	}

	c.client = client
	c.collection = collection
	return nil
}

// Disconnect releases the MongoDB connection. Safe to call even if the
// cache never connected.
func (c *TranslationCache) Disconnect(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close(ctx)
	c.client = nil
	c.collection = nil
	return err
}

// Ping verifies the MongoDB connection is alive. Before Connect it returns
// ErrCacheNotConnected.
func (c *TranslationCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return domain.ErrCacheNotConnected
	}
	if err := c.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("cache ping failed: %w", err)
	}
	return nil
}

// Lookup retrieves a cached translation by exact (text, targetLang) match.
// On a hit it refreshes last_accessed; a failure to do so is logged but
// does not fail the lookup.
func (c *TranslationCache) Lookup(ctx context.Context, text, targetLang string) (string, bool, error) {
	if c.collection == nil {
		return "", false, domain.ErrCacheNotConnected
	}

	filter := bson.M{"text": text, "target_lang": targetLang}

	var record entities.TranslationRecord
	err := c.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to look up translation: %w", err)
	}

	// Access timestamp is analytics only, best effort.
	_, err = c.collection.UpdateOne(ctx, filter,
		bson.M{"$set": bson.M{"last_accessed": time.Now().UTC()}})
	if err != nil {
		c.logger.Warn("Failed to update translation access time",
			zap.String("target_lang", targetLang),
			zap.Error(err))
	}

	return record.Translation, true, nil
}

// Store upserts a translation by (text, targetLang), refreshing both
// timestamps.
func (c *TranslationCache) Store(ctx context.Context, text, targetLang, translation string) error {
	if c.collection == nil {
		return domain.ErrCacheNotConnected
	}

	now := time.Now().UTC()
	document := bson.M{
		"text":          text,
		"target_lang":   targetLang,
		"translation":   translation,
		"created_at":    now,
		"last_accessed": now,
	}

	_, err := c.collection.UpdateOne(ctx,
		bson.M{"text": text, "target_lang": targetLang},
		bson.M{"$set": document},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to store translation: %w", err)
	}

	return nil
}
