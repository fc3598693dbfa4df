package mongodb

import (
	"context"
	"testing"
	"time"

	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
	coreerrors "github.com/aevon-lab/siteflow/internal/core/errors"
	"github.com/aevon-lab/siteflow/internal/core/storage"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func strPtr(s string) *string { return &s }

func TestEventStore_Append(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	evt := &v1.Event{
		ID:         "evt-1",
		SiteID:     "siteA",
		EventType:  "pageview",
		Path:       strPtr("/home"),
		Timestamp:  now,
		ReceivedAt: now,
	}

	mt.Run("success", func(mt *mtest.T) {
		store := newEventStore(mt.Client, mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := store.Append(context.Background(), evt)
		require.NoError(mt, err)
		require.Equal(mt, "evt-1", id)
	})

	mt.Run("generates id when empty", func(mt *mtest.T) {
		store := newEventStore(mt.Client, mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		anonymous := *evt
		anonymous.ID = ""
		id, err := store.Append(context.Background(), &anonymous)
		require.NoError(mt, err)
		require.NotEmpty(mt, id)
	})

	mt.Run("duplicate key", func(mt *mtest.T) {
		store := newEventStore(mt.Client, mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := store.Append(context.Background(), evt)
		require.ErrorIs(mt, err, storage.ErrDuplicate)
	})

	mt.Run("command error maps to ErrPersistence", func(mt *mtest.T) {
		store := newEventStore(mt.Client, mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad value",
		}))

		_, err := store.Append(context.Background(), evt)
		require.ErrorIs(mt, err, coreerrors.ErrPersistence)
	})
}

func TestEventStore_Query(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mt.Run("decodes documents", func(mt *mtest.T) {
		store := newEventStore(mt.Client, mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "evt-1"},
				{Key: "site_id", Value: "siteA"},
				{Key: "event_type", Value: "pageview"},
				{Key: "path", Value: "/home"},
				{Key: "user_id", Value: "u1"},
				{Key: "timestamp", Value: ts},
				{Key: "received_at", Value: ts},
			},
			bson.D{
				{Key: "_id", Value: "evt-2"},
				{Key: "site_id", Value: "siteA"},
				{Key: "event_type", Value: "click"},
				{Key: "timestamp", Value: ts.Add(time.Minute)},
				{Key: "received_at", Value: ts.Add(time.Minute)},
			},
		))

		it, err := store.Query(context.Background(), storage.Predicate{SiteID: "siteA"})
		require.NoError(mt, err)

		events, err := storage.Collect(context.Background(), it)
		require.NoError(mt, err)
		require.Len(mt, events, 2)
		require.Equal(mt, "evt-1", events[0].ID)
		require.Equal(mt, "/home", events[0].PathValue())
		require.Equal(mt, "u1", events[0].UserIDValue())
		require.True(mt, ts.Equal(events[0].Timestamp))
		require.Nil(mt, events[1].Path)
		require.Nil(mt, events[1].UserID)
	})

	mt.Run("find error maps to ErrStoreUnavailable", func(mt *mtest.T) {
		store := newEventStore(mt.Client, mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized",
		}))

		_, err := store.Query(context.Background(), storage.Predicate{
			SiteID: "siteA",
			From:   ts,
			To:     ts.Add(24 * time.Hour),
		})
		require.ErrorIs(mt, err, coreerrors.ErrStoreUnavailable)
	})
}
