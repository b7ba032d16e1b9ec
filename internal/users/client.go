package users

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/angelmondragon/delivery-admin/pkg/apiclient"
	"github.com/angelmondragon/delivery-admin/pkg/enums"
)

const resource = "users"

// Client wraps the user endpoints. All reads except PublicProfile need a
// bearer token.
type Client struct {
	api *apiclient.Client
}

func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

func (c *Client) List(ctx context.Context, filter Filter) ([]User, error) {
	var out []User
	err := c.api.Get(ctx, apiclient.Request{
		Resource:      resource,
		Path:          "users",
		Query:         filter.query(),
		Authenticated: true,
	}, &out)
	return out, err
}

func (c *Client) Get(ctx context.Context, id int64) (*User, error) {
	var out User
	err := c.api.Get(ctx, apiclient.Request{
		Resource:      resource,
		Path:          fmt.Sprintf("users/%d", id),
		Authenticated: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListByRole(ctx context.Context, role enums.Role) ([]User, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	var out []User
	err := c.api.Get(ctx, apiclient.Request{
		Resource:      resource,
		Path:          "users/role/" + url.PathEscape(role.String()),
		Authenticated: true,
	}, &out)
	return out, err
}

func (c *Client) Statistics(ctx context.Context) (*Statistics, error) {
	var out Statistics
	err := c.api.Get(ctx, apiclient.Request{
		Resource:      resource,
		Path:          "users/statistics",
		Authenticated: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.api.Send(ctx, apiclient.Request{
		Resource: resource,
		Method:   http.MethodDelete,
		Path:     fmt.Sprintf("users/%d", id),
	}, nil)
}

// PublicProfile is the unauthenticated profile view of a user.
func (c *Client) PublicProfile(ctx context.Context, id int64) (*User, error) {
	var out User
	if err := c.api.Get(ctx, apiclient.Request{Resource: resource, Path: fmt.Sprintf("users/profile/%d", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (f Filter) query() url.Values {
	q := url.Values{}
	if f.RoleID > 0 {
		q.Set("role_id", strconv.FormatInt(f.RoleID, 10))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q.Set("search", s)
	}
	if len(q) == 0 {
		return nil
	}
	return q
}
