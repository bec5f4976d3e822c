package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/crazyimage/task-system/internal/core/domain"
)

func seqResponse(name string, seq int64) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
		{Key: "_id", Value: name},
		{Key: "seq", Value: seq},
	}})
}

func newUser() *domain.User {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &domain.User{Username: "alice", Email: "a@x.io", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}
}

func TestUserRepository_Mongo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create takes the next sequence id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB, newSequence(mt.DB))
		mt.AddMockResponses(seqResponse(collectionUsers, 3), mtest.CreateSuccessResponse())

		got, err := repo.Create(context.Background(), newUser())
		if err != nil {
			mt.Fatalf("create: %v", err)
		}
		if got.ID != 3 || got.Email != "a@x.io" {
			mt.Fatalf("unexpected user: %+v", got)
		}
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB, newSequence(mt.DB))
		mt.AddMockResponses(
			seqResponse(collectionUsers, 4),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}),
		)

		if _, err := repo.Create(context.Background(), newUser()); !errors.Is(err, domain.ErrUserExists) {
			mt.Fatalf("expected ErrUserExists, got %v", err)
		}
	})

	mt.Run("update duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB, newSequence(mt.DB))
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}))

		u := newUser()
		u.ID = 1
		if err := repo.Update(context.Background(), u); !errors.Is(err, domain.ErrUserExists) {
			mt.Fatalf("expected ErrUserExists, got %v", err)
		}
	})

	mt.Run("update unknown id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB, newSequence(mt.DB))
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		u := newUser()
		u.ID = 99
		if err := repo.Update(context.Background(), u); !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("find by id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB, newSequence(mt.DB))
		ns := mt.DB.Name() + "." + collectionUsers
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: int64(2)},
			{Key: "username", Value: "bob"},
			{Key: "email", Value: "b@x.io"},
			{Key: "password_hash", Value: "h"},
		}))

		got, err := repo.FindByID(context.Background(), 2)
		if err != nil {
			mt.Fatalf("find: %v", err)
		}
		if got.ID != 2 || got.Username != "bob" {
			mt.Fatalf("unexpected user: %+v", got)
		}
	})

	mt.Run("find by email missing", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB, newSequence(mt.DB))
		ns := mt.DB.Name() + "." + collectionUsers
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		if _, err := repo.FindByEmail(context.Background(), "nobody@x.io"); !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestTaskRepository_Mongo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create keeps owner", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.DB, newSequence(mt.DB))
		mt.AddMockResponses(seqResponse(collectionTasks, 7), mtest.CreateSuccessResponse())

		got, err := repo.Create(context.Background(), &domain.Task{Title: "T", Status: "PENDING", UserID: 4})
		if err != nil {
			mt.Fatalf("create: %v", err)
		}
		if got.ID != 7 || got.UserID != 4 {
			mt.Fatalf("unexpected task: %+v", got)
		}
	})

	mt.Run("update unknown id", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.DB, newSequence(mt.DB))
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.Update(context.Background(), &domain.Task{ID: 99, Title: "T", Status: "DONE"})
		if !errors.Is(err, domain.ErrTaskNotFound) {
			mt.Fatalf("expected ErrTaskNotFound, got %v", err)
		}
	})

	mt.Run("find by id missing", func(mt *mtest.T) {
		repo := NewTaskRepository(mt.DB, newSequence(mt.DB))
		ns := mt.DB.Name() + "." + collectionTasks
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		if _, err := repo.FindByID(context.Background(), 5); !errors.Is(err, domain.ErrTaskNotFound) {
			mt.Fatalf("expected ErrTaskNotFound, got %v", err)
		}
	})
}
