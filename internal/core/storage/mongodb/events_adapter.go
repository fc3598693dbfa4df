package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
	coreerrors "github.com/aevon-lab/siteflow/internal/core/errors"
	"github.com/aevon-lab/siteflow/internal/core/storage"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectTimeout  = 10 * time.Second
	eventCollection = "events"
)

// eventDocument is the persisted layout of an event.
type eventDocument struct {
	ID         string    `bson:"_id"`
	SiteID     string    `bson:"site_id"`
	EventType  string    `bson:"event_type"`
	Path       *string   `bson:"path,omitempty"`
	UserID     *string   `bson:"user_id,omitempty"`
	Timestamp  time.Time `bson:"timestamp"`
	ReceivedAt time.Time `bson:"received_at"`
}

func toDocument(evt *v1.Event, id string) eventDocument {
	return eventDocument{
		ID:         id,
		SiteID:     evt.SiteID,
		EventType:  evt.EventType,
		Path:       evt.Path,
		UserID:     evt.UserID,
		Timestamp:  evt.Timestamp,
		ReceivedAt: evt.ReceivedAt,
	}
}

func (d eventDocument) toEvent() *v1.Event {
	return &v1.Event{
		ID:         d.ID,
		SiteID:     d.SiteID,
		EventType:  d.EventType,
		Path:       d.Path,
		UserID:     d.UserID,
		Timestamp:  d.Timestamp.UTC(),
		ReceivedAt: d.ReceivedAt.UTC(),
	}
}

// EventStore implements storage.EventStore on a MongoDB collection.
type EventStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewEventStore connects to MongoDB and ensures the site/timestamp indexes exist.
//
// Example URI: "mongodb://localhost:27017"
func NewEventStore(uri, database string) (*EventStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	store := newEventStore(client, client.Database(database).Collection(eventCollection))
	if err := store.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	slog.Info("[Mongo] Event store initialized", "database", database, "collection", eventCollection)
	return store, nil
}

func newEventStore(client *mongo.Client, coll *mongo.Collection) *EventStore {
	return &EventStore{client: client, coll: coll}
}

func (s *EventStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "site_id", Value: 1}},
			Options: options.Index().SetName("idx_events_site"),
		},
		{
			Keys:    bson.D{{Key: "site_id", Value: 1}, {Key: "timestamp", Value: 1}},
			Options: options.Index().SetName("idx_events_site_timestamp"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create event indexes: %w", err)
	}
	return nil
}

// Append inserts one event document. The document _id is the event ID,
// so a repeated ID surfaces as storage.ErrDuplicate.
func (s *EventStore) Append(ctx context.Context, event *v1.Event) (string, error) {
	id := event.ID
	if id == "" {
		id = uuid.NewString()
	}

	if _, err := s.coll.InsertOne(ctx, toDocument(event, id)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", storage.ErrDuplicate
		}
		return "", fmt.Errorf("%w: failed to insert event: %w", coreerrors.ErrPersistence, err)
	}

	slog.Debug("[Mongo] Saved event", "site_id", event.SiteID, "event_id", id)
	return id, nil
}

// Query streams the events of one site ordered by timestamp.
func (s *EventStore) Query(ctx context.Context, pred storage.Predicate) (storage.EventIterator, error) {
	filter := bson.M{"site_id": pred.SiteID}
	if pred.Bounded() {
		window := bson.M{}
		if !pred.From.IsZero() {
			window["$gte"] = pred.From
		}
		if !pred.To.IsZero() {
			window["$lt"] = pred.To
		}
		filter["timestamp"] = window
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find events: %w", coreerrors.ErrStoreUnavailable, err)
	}
	return &cursorIterator{cursor: cursor}, nil
}

func (s *EventStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *EventStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect mongo: %w", err)
	}
	slog.Info("[Mongo] Event store closed gracefully")
	return nil
}

// cursorIterator adapts *mongo.Cursor to storage.EventIterator.
type cursorIterator struct {
	cursor *mongo.Cursor
	cur    *v1.Event
	err    error
}

func (it *cursorIterator) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}
	if !it.cursor.Next(ctx) {
		it.err = it.cursor.Err()
		return false
	}
	var doc eventDocument
	if err := it.cursor.Decode(&doc); err != nil {
		it.err = fmt.Errorf("failed to decode event: %w", err)
		return false
	}
	it.cur = doc.toEvent()
	return true
}

func (it *cursorIterator) Event() *v1.Event { return it.cur }

func (it *cursorIterator) Err() error { return it.err }

func (it *cursorIterator) Close() error {
	return it.cursor.Close(context.Background())
}
