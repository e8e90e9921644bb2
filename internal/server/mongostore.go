package server

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lanyardlab/badgeforge/pkg/badge"
)

// MongoStore backs multi-node deployments where registration data is
// shared. Events live in one collection, attendees in another keyed by
// (event_id, id).
type MongoStore struct {
	client    *mongo.Client
	events    *mongo.Collection
	attendees *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	db := client.Database(database)
	return &MongoStore{
		client:    client,
		events:    db.Collection("events"),
		attendees: db.Collection("attendees"),
	}, nil
}

// PutEvent upserts an event record.
func (s *MongoStore) PutEvent(ctx context.Context, ev *badge.Event) error {
	_, err := s.events.ReplaceOne(ctx,
		bson.M{"event_id": ev.ID}, ev, options.Replace().SetUpsert(true))
	return err
}

// GetEvent loads an event record.
func (s *MongoStore) GetEvent(ctx context.Context, id string) (*badge.Event, error) {
	var ev badge.Event
	err := s.events.FindOne(ctx, bson.M{"event_id": id}).Decode(&ev)
	if err == mongo.ErrNoDocuments {
		return nil, notFound("event", id)
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// PutAttendee upserts an attendee record under an event.
func (s *MongoStore) PutAttendee(ctx context.Context, eventID string, a *badge.Attendee) error {
	doc := bson.M{"event_id": eventID, "record": a}
	_, err := s.attendees.ReplaceOne(ctx,
		bson.M{"event_id": eventID, "record.id": a.ID}, doc,
		options.Replace().SetUpsert(true))
	return err
}

// GetAttendee loads one attendee record.
func (s *MongoStore) GetAttendee(ctx context.Context, eventID, id string) (*badge.Attendee, error) {
	var doc struct {
		Record badge.Attendee `bson:"record"`
	}
	err := s.attendees.FindOne(ctx,
		bson.M{"event_id": eventID, "record.id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, notFound("attendee", id)
	}
	if err != nil {
		return nil, err
	}
	return &doc.Record, nil
}

// ListAttendees loads every attendee of an event, sorted by ID.
func (s *MongoStore) ListAttendees(ctx context.Context, eventID string) ([]badge.Attendee, error) {
	cursor, err := s.attendees.Find(ctx,
		bson.M{"event_id": eventID},
		options.Find().SetSort(bson.M{"record.id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []badge.Attendee
	for cursor.Next(ctx) {
		var doc struct {
			Record badge.Attendee `bson:"record"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.Record)
	}
	return out, cursor.Err()
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
