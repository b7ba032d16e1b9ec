package areas

import (
	"context"
	"fmt"
	"net/http"

	"github.com/angelmondragon/delivery-admin/pkg/apiclient"
)

const resource = "areas"

// Client wraps the areas endpoints. Reads are public.
type Client struct {
	api *apiclient.Client
}

func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

func (c *Client) List(ctx context.Context) ([]Area, error) {
	var out []Area
	err := c.api.Get(ctx, apiclient.Request{Resource: resource, Path: "areas"}, &out)
	return out, err
}

func (c *Client) Get(ctx context.Context, id int64) (*Area, error) {
	var out Area
	if err := c.api.Get(ctx, apiclient.Request{Resource: resource, Path: fmt.Sprintf("areas/%d", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListByPlace(ctx context.Context, placeID int64) ([]Area, error) {
	var out []Area
	err := c.api.Get(ctx, apiclient.Request{Resource: resource, Path: fmt.Sprintf("areas/place/%d", placeID)}, &out)
	return out, err
}

func (c *Client) Create(ctx context.Context, req AreaRequest) (*Area, error) {
	var out Area
	err := c.api.Send(ctx, apiclient.Request{Resource: resource, Method: http.MethodPost, Path: "areas/create", JSON: req}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id int64, req AreaRequest) (*Area, error) {
	var out Area
	err := c.api.Send(ctx, apiclient.Request{Resource: resource, Method: http.MethodPut, Path: fmt.Sprintf("areas/%d", id), JSON: req}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.api.Send(ctx, apiclient.Request{Resource: resource, Method: http.MethodDelete, Path: fmt.Sprintf("areas/%d", id)}, nil)
}
