package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quillhub/blog-service/internal/dto"
	"github.com/quillhub/blog-service/internal/model"
	"github.com/quillhub/blog-service/internal/repository"
	"go.uber.org/zap"
)

const snippetLength = 150

type postService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newPostService(logger *zap.Logger, repo *repository.Repository) Post {
	return &postService{
		logger: logger,
		repo:   repo,
	}
}

// List returns all posts ordered by creation time descending. A non-empty query
// retains only posts whose title or content contains it, case-insensitively.
func (s *postService) List(ctx context.Context, query string, viewerEmail string) ([]*model.PostSummary, error) {
	posts, err := s.repo.Postgres.Post.FindAll(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to list posts from store: %s", err.Error())
		return nil, ErrInternal
	}

	queryLower := strings.ToLower(query)

	summaries := make([]*model.PostSummary, 0, len(posts))
	for _, post := range posts {
		if query != "" &&
			!strings.Contains(strings.ToLower(post.Title), queryLower) &&
			!strings.Contains(strings.ToLower(post.Content), queryLower) {
			continue
		}

		summaries = append(summaries, &model.PostSummary{
			ID:        post.ID,
			Title:     post.Title,
			Snippet:   snippet(post.Content),
			Author:    post.Author,
			Timestamp: post.DisplayTime(),
			IsAuthor:  viewerEmail != "" && viewerEmail == post.Author,
		})
	}

	return summaries, nil
}

func (s *postService) FindByID(ctx context.Context, id string) (*model.Post, error) {
	postID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrPostNotFound
	}

	post, err := s.repo.Postgres.Post.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%s) from store: %s", postID.String(), err.Error())
		return nil, ErrInternal
	}

	return post, nil
}

// FindOwned fetches a post and verifies the caller is its author. The author
// field is the sole authorization key for mutation.
func (s *postService) FindOwned(ctx context.Context, id string, editorEmail string) (*model.Post, error) {
	post, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.Author != editorEmail {
		return nil, ErrNotPostAuthor
	}

	return post, nil
}

func (s *postService) Create(ctx context.Context, authorEmail string, input dto.PostFormRequest) (uuid.UUID, error) {
	doc := model.PostDocument{
		Title:   input.Title,
		Content: input.Content,
		Author:  authorEmail,
	}

	id, err := s.repo.Postgres.Post.Create(ctx, doc)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create post for author(%s): %s", authorEmail, err.Error())
		return uuid.Nil, ErrInternal
	}

	return id, nil
}

func (s *postService) Update(ctx context.Context, id string, editorEmail string, input dto.PostFormRequest) error {
	post, err := s.FindOwned(ctx, id, editorEmail)
	if err != nil {
		return err
	}

	// Author is immutable; only title and content change.
	doc := model.PostDocument{
		Title:     input.Title,
		Content:   input.Content,
		Author:    post.Author,
		Timestamp: post.Timestamp,
	}

	if err := s.repo.Postgres.Post.Update(ctx, post.ID, doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to update post(%s): %s", post.ID.String(), err.Error())
		return ErrInternal
	}

	return nil
}

func (s *postService) Delete(ctx context.Context, id string, editorEmail string) error {
	post, err := s.FindOwned(ctx, id, editorEmail)
	if err != nil {
		return err
	}

	if err := s.repo.Postgres.Post.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to delete post(%s): %s", post.ID.String(), err.Error())
		return ErrInternal
	}

	return nil
}

func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetLength {
		return content
	}
	return string(runes[:snippetLength]) + "..."
}
