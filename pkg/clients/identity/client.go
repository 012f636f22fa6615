// Package identity talks to the hosted auth function that owns user accounts.
// Every call is a POST of {"action": ...} to a single endpoint.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
)

// ErrUnauthorized is returned when the provider reports a token as invalid or expired.
var ErrUnauthorized = errors.New("identity: session is not valid")

// RejectedError carries the message of a request the provider refused, such as bad
// credentials or an e-mail already registered.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("identity rejected request (%d): %s", e.StatusCode, e.Message)
}

// Client exposes the identity operations used by the application.
type Client interface {
	Signup(ctx context.Context, email, password, name string) (models.AuthSession, error)
	Login(ctx context.Context, email, password string) (models.AuthSession, error)
	Verify(ctx context.Context, token string) (models.User, error)
	Logout(ctx context.Context, token string) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a client for the auth function at endpoint.
func NewClient(endpoint, apiKey string) *APIClient {
	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(endpoint, "/")).
		SetHeader("apikey", apiKey).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	return &APIClient{httpClient: restyClient}
}

type authRequest struct {
	Action   string `json:"action"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Name     string `json:"name,omitempty"`
	Token    string `json:"token,omitempty"`
}

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type authResponse struct {
	Success bool      `json:"success"`
	Valid   *bool     `json:"valid,omitempty"`
	User    *authUser `json:"user,omitempty"`
	Token   string    `json:"token,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// Signup registers a new account and returns its first session.
func (c *APIClient) Signup(ctx context.Context, email, password, name string) (models.AuthSession, error) {
	resp, err := c.call(ctx, authRequest{Action: "signup", Email: email, Password: password, Name: name})
	if err != nil {
		return models.AuthSession{}, err
	}
	return session(resp)
}

// Login exchanges credentials for a session.
func (c *APIClient) Login(ctx context.Context, email, password string) (models.AuthSession, error) {
	resp, err := c.call(ctx, authRequest{Action: "login", Email: email, Password: password})
	if err != nil {
		return models.AuthSession{}, err
	}
	return session(resp)
}

// Verify resolves a token to its user, or ErrUnauthorized.
func (c *APIClient) Verify(ctx context.Context, token string) (models.User, error) {
	resp, err := c.call(ctx, authRequest{Action: "verify", Token: token})
	if err != nil {
		return models.User{}, err
	}
	if (resp.Valid != nil && !*resp.Valid) || !resp.Success || resp.User == nil {
		return models.User{}, ErrUnauthorized
	}
	return toUser(*resp.User), nil
}

// Logout ends a session on the provider side.
func (c *APIClient) Logout(ctx context.Context, token string) error {
	_, err := c.call(ctx, authRequest{Action: "logout", Token: token})
	return err
}

func (c *APIClient) call(ctx context.Context, body authRequest) (*authResponse, error) {
	result := new(authResponse)
	errBody := new(authResponse)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		SetError(errBody).
		Post("")
	if err != nil {
		return nil, fmt.Errorf("identity %s: %w", body.Action, err)
	}

	status := resp.StatusCode()
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, ErrUnauthorized
	case status >= http.StatusInternalServerError:
		return nil, fmt.Errorf("identity %s: provider returned %d", body.Action, status)
	case status >= http.StatusBadRequest:
		message := errBody.Error
		if message == "" {
			message = http.StatusText(status)
		}
		return nil, &RejectedError{StatusCode: status, Message: message}
	}
	return result, nil
}

func session(resp *authResponse) (models.AuthSession, error) {
	if resp.User == nil || resp.Token == "" {
		return models.AuthSession{}, errors.New("identity: response carries no session")
	}
	return models.AuthSession{Token: resp.Token, User: toUser(*resp.User)}, nil
}

// toUser applies the provider's defaults: the name falls back to the e-mail local part
// and the role to farmer.
func toUser(u authUser) models.User {
	user := models.User{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
	if user.Name == "" {
		user.Name, _, _ = strings.Cut(user.Email, "@")
	}
	if user.Role == "" {
		user.Role = models.DefaultRole
	}
	return user
}
