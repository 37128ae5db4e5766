package mongostore

import (
	"context"
	"time"

	"todo-admin/internal/shared/model"
	"todo-admin/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// TodoStore
// ============================================================================

// byInsertion 按创建时间升序，即插入序
var byInsertion = options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

func (s *Store) CreateTodo(ctx context.Context, todo *model.Todo) error {
	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.UpdatedAt = now
	return insertOne(ctx, s.col(ColTodos), todo)
}

func (s *Store) GetTodoByID(ctx context.Context, id string) (*model.Todo, error) {
	return findOne[model.Todo](ctx, s.col(ColTodos), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) ListTodosByOwner(ctx context.Context, ownerID string) ([]*model.Todo, error) {
	return findMany[model.Todo](ctx, s.col(ColTodos), bson.D{{Key: "owner_id", Value: ownerID}}, byInsertion)
}

func (s *Store) ListTodos(ctx context.Context) ([]*model.Todo, error) {
	return findMany[model.Todo](ctx, s.col(ColTodos), bson.D{}, byInsertion)
}

func (s *Store) UpdateTodo(ctx context.Context, id string, fields storage.TodoFields) (*model.Todo, error) {
	set := bson.D{{Key: "updated_at", Value: time.Now().UTC()}}
	if fields.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *fields.Title})
	}
	if fields.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *fields.Description})
	}
	if fields.Status != nil {
		set = append(set, bson.E{Key: "status", Value: *fields.Status})
	}
	return updateByID[model.Todo](ctx, s.col(ColTodos), id, set)
}

func (s *Store) DeleteTodo(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, s.col(ColTodos), id)
}
