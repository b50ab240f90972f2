package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/quillhub/blog-service/internal/model"
	"go.uber.org/zap"
)

// Gateway wraps the external identity provider. Accounts live entirely on the
// provider side; this process never stores credentials or identity records.
type Gateway interface {
	CreateAccount(ctx context.Context, email string, password string) (*model.Identity, error)
	GetByEmail(ctx context.Context, email string) (*model.Identity, error)
	GetByUID(ctx context.Context, uid string) (*model.Identity, error)
	VerifyPassword(ctx context.Context, email string, password string) (*model.Identity, error)
}

type httpGateway struct {
	logger     *zap.Logger
	creds      *Credentials
	httpClient *http.Client
}

func NewHTTPGateway(logger *zap.Logger, creds *Credentials) Gateway {
	return &httpGateway{
		logger:     logger,
		creds:      creds,
		httpClient: &http.Client{},
	}
}

type accountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

type accountResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *httpGateway) CreateAccount(ctx context.Context, email string, password string) (*model.Identity, error) {
	return g.do(ctx, http.MethodPost, "/v1/accounts", &accountRequest{Email: email, Password: password})
}

func (g *httpGateway) GetByEmail(ctx context.Context, email string) (*model.Identity, error) {
	return g.do(ctx, http.MethodGet, "/v1/accounts/email/"+url.PathEscape(email), nil)
}

func (g *httpGateway) GetByUID(ctx context.Context, uid string) (*model.Identity, error) {
	return g.do(ctx, http.MethodGet, "/v1/accounts/"+url.PathEscape(uid), nil)
}

func (g *httpGateway) VerifyPassword(ctx context.Context, email string, password string) (*model.Identity, error) {
	return g.do(ctx, http.MethodPost, "/v1/accounts:verifyPassword", &accountRequest{Email: email, Password: password})
}

func (g *httpGateway) do(ctx context.Context, method string, endpoint string, payload *accountRequest) (*model.Identity, error) {
	var requestBody io.Reader
	if payload != nil {
		payloadJSON, err := json.Marshal(payload)
		if err != nil {
			g.logger.Sugar().Errorf("failed to encode request body for identity provider: %s", err.Error())
			return nil, err
		}
		requestBody = bytes.NewReader(payloadJSON)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.creds.Origin+endpoint, requestBody)
	if err != nil {
		g.logger.Sugar().Errorf("failed to create request to identity provider: %s", err.Error())
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.creds.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Sugar().Errorf("failed to send request to identity provider: %s", err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		g.logger.Sugar().Errorf("failed to read response body from identity provider: %s", err.Error())
		return nil, err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		providerErr := decodeProviderError(body)
		g.logger.Sugar().Errorf("ERROR from identity provider endpoint(%s), code(%d): %s", endpoint, resp.StatusCode, providerErr.Error())
		return nil, providerErr
	}

	var account accountResponse
	if err := json.Unmarshal(body, &account); err != nil {
		g.logger.Sugar().Errorf("failed to decode account response from identity provider: %s", err.Error())
		return nil, err
	}

	return &model.Identity{UID: account.UID, Email: account.Email}, nil
}

// decodeProviderError pattern-matches the provider's error codes into the
// gateway's sentinel errors. Unrecognized messages are surfaced as-is.
func decodeProviderError(body []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
		return errors.New("identity provider request failed")
	}

	message := errResp.Error.Message
	switch {
	case strings.Contains(message, "EMAIL_EXISTS"):
		return ErrEmailExists
	case strings.Contains(message, "INVALID_EMAIL"):
		return ErrInvalidEmail
	case strings.Contains(message, "EMAIL_NOT_FOUND"), strings.Contains(message, "USER_NOT_FOUND"):
		return ErrUserNotFound
	case strings.Contains(message, "INVALID_PASSWORD"), strings.Contains(message, "INVALID_LOGIN_CREDENTIALS"):
		return ErrInvalidCredentials
	default:
		return fmt.Errorf("identity provider error: %s", message)
	}
}
