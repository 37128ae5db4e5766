package mongostore

import (
	"context"
	"time"

	"todo-admin/internal/shared/model"
	"todo-admin/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// UserStore
// ============================================================================

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	return insertOne(ctx, s.col(ColUsers), user)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "email", Value: email}})
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) UpdateUser(ctx context.Context, id string, fields storage.UserFields) (*model.User, error) {
	set := bson.D{{Key: "updated_at", Value: time.Now().UTC()}}
	if fields.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *fields.Name})
	}
	if fields.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *fields.Email})
	}
	if fields.PasswordHash != nil {
		set = append(set, bson.E{Key: "password_hash", Value: *fields.PasswordHash})
	}
	if fields.Role != nil {
		set = append(set, bson.E{Key: "role", Value: *fields.Role})
	}
	return updateByID[model.User](ctx, s.col(ColUsers), id, set)
}

func (s *Store) DeleteUser(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, s.col(ColUsers), id)
}
