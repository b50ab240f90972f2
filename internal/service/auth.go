package service

import (
	"context"
	"errors"
	"time"

	"github.com/quillhub/blog-service/internal/dto"
	"github.com/quillhub/blog-service/internal/identity"
	"github.com/quillhub/blog-service/internal/model"
	"github.com/quillhub/blog-service/internal/repository"
	"github.com/quillhub/blog-service/internal/repository/redisrepo"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const minPasswordLength = 6

type authService struct {
	logger  *zap.Logger
	repo    *repository.Repository
	gateway identity.Gateway
}

func newAuthService(logger *zap.Logger, repo *repository.Repository, gateway identity.Gateway) Auth {
	return &authService{
		logger:  logger,
		repo:    repo,
		gateway: gateway,
	}
}

func (s *authService) SignUp(ctx context.Context, input dto.SignupRequest) error {
	if input.Email == "" || input.Password == "" {
		return ErrFieldsEmpty
	}
	if len(input.Password) < minPasswordLength {
		return ErrPasswordTooShort
	}

	if _, err := s.gateway.CreateAccount(ctx, input.Email, input.Password); err != nil {
		s.logger.Sugar().Errorf("failed to create account for email(%s): %s", input.Email, err.Error())
		return err
	}

	return nil
}

// SignIn verifies the credentials against the identity provider and returns the
// resolved identity. Unknown accounts and wrong passwords collapse into
// ErrInvalidCredentials so account existence is not leaked.
func (s *authService) SignIn(ctx context.Context, input dto.LoginRequest) (*model.Identity, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrFieldsEmpty
	}

	id, err := s.gateway.VerifyPassword(ctx, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) ||
			errors.Is(err, identity.ErrInvalidEmail) ||
			errors.Is(err, identity.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Sugar().Errorf("failed to verify credentials for email(%s): %s", input.Email, err.Error())
		return nil, err
	}

	s.cacheIdentity(ctx, id)

	return id, nil
}

// IdentityByUID resolves a session's uid back to an identity, consulting the
// cache first. Cache failures are soft: logged, then the provider is asked.
func (s *authService) IdentityByUID(ctx context.Context, uid string) (*model.Identity, error) {
	cached, err := redisrepo.Get[model.Identity](s.repo.Redis.Default, ctx, redisrepo.IdentityKey(uid))
	if err == nil && cached != nil {
		return cached, nil
	}

	id, err := s.gateway.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	s.cacheIdentity(ctx, id)

	return id, nil
}

func (s *authService) ForgetIdentity(ctx context.Context, uid string) {
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.IdentityKey(uid)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete cached identity(%s): %s", uid, err.Error())
	}
}

func (s *authService) cacheIdentity(ctx context.Context, id *model.Identity) {
	ttl := viper.GetDuration("cache.identity_ttl")
	if ttl == 0 {
		ttl = time.Hour
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.IdentityKey(id.UID), id, ttl); err != nil {
		s.logger.Sugar().Errorf("failed to cache identity(%s): %s", id.UID, err.Error())
	}
}
