package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quillhub/blog-service/internal/model"
)

type Post interface {
	Create(ctx context.Context, doc model.PostDocument) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	FindAll(ctx context.Context) ([]*model.Post, error)
	Update(ctx context.Context, id uuid.UUID, doc model.PostDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresRepository struct {
	Post
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		Post: newPostRepo(db),
	}
}
