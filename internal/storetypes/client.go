package storetypes

import (
	"context"
	"fmt"
	"net/http"

	"github.com/angelmondragon/delivery-admin/pkg/apiclient"
)

const resource = "store-types"

// Client wraps the store type endpoints.
type Client struct {
	api *apiclient.Client
}

func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

func (c *Client) List(ctx context.Context) ([]StoreType, error) {
	var out []StoreType
	err := c.api.Get(ctx, apiclient.Request{Resource: resource, Path: "store-types"}, &out)
	return out, err
}

func (c *Client) Get(ctx context.Context, id int64) (*StoreType, error) {
	var out StoreType
	if err := c.api.Get(ctx, apiclient.Request{Resource: resource, Path: fmt.Sprintf("store-types/%d", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, in Input) (*StoreType, error) {
	var out StoreType
	err := c.api.Send(ctx, apiclient.Request{
		Resource:  resource,
		Method:    http.MethodPost,
		Path:      "store-types/create",
		Multipart: in.multipart(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id int64, in Input) (*StoreType, error) {
	var out StoreType
	err := c.api.Send(ctx, apiclient.Request{
		Resource:  resource,
		Method:    http.MethodPut,
		Path:      fmt.Sprintf("store-types/update/%d", id),
		Multipart: in.multipart(),
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
		Path:     fmt.Sprintf("store-types/%d", id),
	}, nil)
}

func (in Input) multipart() *apiclient.Multipart {
	return apiclient.NewMultipart().
		Field("name_ar", in.NameAr).
		Field("name_en", in.NameEn).
		Field("description_ar", in.DescriptionAr).
		Field("description_en", in.DescriptionEn).
		File("image", in.Image)
}
