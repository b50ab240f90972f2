package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/quillhub/blog-service/internal/dto"
	"github.com/quillhub/blog-service/internal/identity"
	"github.com/quillhub/blog-service/internal/model"
	"github.com/quillhub/blog-service/internal/repository"
	"go.uber.org/zap"
)

type Post interface {
	List(ctx context.Context, query string, viewerEmail string) ([]*model.PostSummary, error)
	FindByID(ctx context.Context, id string) (*model.Post, error)
	FindOwned(ctx context.Context, id string, editorEmail string) (*model.Post, error)
	Create(ctx context.Context, authorEmail string, input dto.PostFormRequest) (uuid.UUID, error)
	Update(ctx context.Context, id string, editorEmail string, input dto.PostFormRequest) error
	Delete(ctx context.Context, id string, editorEmail string) error
}

type Auth interface {
	SignUp(ctx context.Context, input dto.SignupRequest) error
	SignIn(ctx context.Context, input dto.LoginRequest) (*model.Identity, error)
	IdentityByUID(ctx context.Context, uid string) (*model.Identity, error)
	ForgetIdentity(ctx context.Context, uid string)
}

type Service struct {
	Post
	Auth
}

func New(logger *zap.Logger, repo *repository.Repository, gateway identity.Gateway) *Service {
	return &Service{
		Post: newPostService(logger, repo),
		Auth: newAuthService(logger, repo, gateway),
	}
}
