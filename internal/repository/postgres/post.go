package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quillhub/blog-service/internal/model"
)

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) Post {
	return &postRepo{
		db: db,
	}
}

func (r *postRepo) Create(ctx context.Context, doc model.PostDocument) (uuid.UUID, error) {
	var id uuid.UUID
	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO posts(doc) VALUES($1) RETURNING id",
		doc,
	).Scan(&id); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	row := r.db.QueryRow(
		ctx,
		"SELECT p.id, p.doc, p.created_at, p.updated_at FROM posts p WHERE p.id = $1",
		id,
	)
	return scanPost(row)
}

func (r *postRepo) FindAll(ctx context.Context) ([]*model.Post, error) {
	rows, err := r.db.Query(
		ctx,
		"SELECT p.id, p.doc, p.created_at, p.updated_at FROM posts p ORDER BY p.created_at DESC NULLS LAST",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) Update(ctx context.Context, id uuid.UUID, doc model.PostDocument) error {
	tag, err := r.db.Exec(
		ctx,
		"UPDATE posts SET doc = $2, updated_at = now() WHERE id = $1",
		id,
		doc,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *postRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// scanPost decodes one stored document into a Post. The document's fields are
// not guaranteed to be present, so absent ones get explicit defaults.
func scanPost(row pgx.Row) (*model.Post, error) {
	var (
		id        uuid.UUID
		doc       model.PostDocument
		createdAt *time.Time
		updatedAt *time.Time
	)
	if err := row.Scan(&id, &doc, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return &model.Post{
		ID:        id,
		Title:     orDefault(doc.Title, "No Title"),
		Content:   orDefault(doc.Content, "No Content"),
		Author:    orDefault(doc.Author, "Anonymous"),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Timestamp: doc.Timestamp,
	}, nil
}

func orDefault(value string, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
