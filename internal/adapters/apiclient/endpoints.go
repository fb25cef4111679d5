package apiclient

import (
	"context"
	"net/http"
	"net/url"

	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
	"github.com/eduevents/eduevents-hub/internal/domain/model"
	"github.com/eduevents/eduevents-hub/internal/ports"
)

type loginData struct {
	Token string `json:"token"`
}

type registerData struct {
	User  *ports.RegisteredUser `json:"user"`
	Token string                `json:"token"`
}

// Login exchanges credentials for a bearer token. A successful response
// without a token yields an empty AuthResult.Token.
func (c *Client) Login(ctx context.Context, creds domainauth.Credentials) (ports.AuthResult, error) {
	var out loginData
	err := c.do(ctx, call{
		method:       http.MethodPost,
		path:         "/auth/login",
		route:        "/auth/login",
		body:         creds,
		out:          &out,
		optionalData: true,
	})
	if err != nil {
		return ports.AuthResult{}, err
	}
	return ports.AuthResult{Token: out.Token}, nil
}

// Register creates an account and returns its first token and user record.
func (c *Client) Register(ctx context.Context, data domainauth.RegisterData) (ports.AuthResult, error) {
	var out registerData
	err := c.do(ctx, call{
		method:       http.MethodPost,
		path:         "/auth/register",
		route:        "/auth/register",
		body:         data,
		out:          &out,
		optionalData: true,
	})
	if err != nil {
		return ports.AuthResult{}, err
	}
	return ports.AuthResult{Token: out.Token, User: out.User}, nil
}

// The API serves one /dashboard endpoint whose payload shape depends on the
// role carried by the bearer token.

func (c *Client) StudentDashboard(ctx context.Context) (model.StudentDashboard, error) {
	var out model.StudentDashboard
	err := c.do(ctx, call{method: http.MethodGet, path: "/dashboard", route: "/dashboard", out: &out})
	return out, err
}

func (c *Client) JudgeDashboard(ctx context.Context) (model.JudgeDashboard, error) {
	var out model.JudgeDashboard
	err := c.do(ctx, call{method: http.MethodGet, path: "/dashboard", route: "/dashboard", out: &out})
	return out, err
}

func (c *Client) AdminDashboard(ctx context.Context) (model.AdminDashboard, error) {
	var out model.AdminDashboard
	err := c.do(ctx, call{method: http.MethodGet, path: "/dashboard", route: "/dashboard", out: &out})
	return out, err
}

// Profile fetches one user record.
func (c *Client) Profile(ctx context.Context, userID string) (model.Profile, error) {
	var out model.Profile
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/users/" + url.PathEscape(userID),
		route:  "/users/{id}",
		out:    &out,
	})
	return out, err
}

// UpdateProfile patches the user's names and returns the updated record.
func (c *Client) UpdateProfile(ctx context.Context, userID string, in model.ProfileUpdate) (model.Profile, error) {
	var out model.Profile
	err := c.do(ctx, call{
		method:       http.MethodPatch,
		path:         "/users/" + url.PathEscape(userID),
		route:        "/users/{id}",
		body:         in,
		out:          &out,
		optionalData: true,
	})
	return out, err
}
