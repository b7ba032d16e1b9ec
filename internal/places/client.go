package places

import (
	"context"
	"fmt"
	"net/http"

	"github.com/angelmondragon/delivery-admin/pkg/apiclient"
)

const resource = "places"

// Client wraps the places endpoints.
type Client struct {
	api *apiclient.Client
}

func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

func (c *Client) List(ctx context.Context) ([]Place, error) {
	var out []Place
	err := c.api.Get(ctx, apiclient.Request{Resource: resource, Path: "places"}, &out)
	return out, err
}

func (c *Client) Get(ctx context.Context, id int64) (*Place, error) {
	var out Place
	if err := c.api.Get(ctx, apiclient.Request{Resource: resource, Path: fmt.Sprintf("places/%d", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, req PlaceRequest) (*Place, error) {
	var out Place
	err := c.api.Send(ctx, apiclient.Request{Resource: resource, Method: http.MethodPost, Path: "places/create", JSON: req}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id int64, req PlaceRequest) (*Place, error) {
	var out Place
	err := c.api.Send(ctx, apiclient.Request{Resource: resource, Method: http.MethodPut, Path: fmt.Sprintf("places/%d", id), JSON: req}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.api.Send(ctx, apiclient.Request{Resource: resource, Method: http.MethodDelete, Path: fmt.Sprintf("places/%d", id)}, nil)
}
