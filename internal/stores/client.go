package stores

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/angelmondragon/delivery-admin/pkg/apiclient"
)

const resource = "stores"

// Client wraps the store endpoints.
type Client struct {
	api *apiclient.Client
}

func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

func (c *Client) List(ctx context.Context) ([]Store, error) {
	var out []Store
	err := c.api.Get(ctx, apiclient.Request{Resource: resource, Path: "stores"}, &out)
	return out, err
}

func (c *Client) Get(ctx context.Context, id int64) (*Store, error) {
	var out Store
	if err := c.api.Get(ctx, apiclient.Request{Resource: resource, Path: fmt.Sprintf("stores/show/%d", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByType unwraps the stores list nested under data.stores.
func (c *Client) ListByType(ctx context.Context, storeTypeID int64) ([]Store, error) {
	var out byTypePayload
	err := c.api.Get(ctx, apiclient.Request{Resource: resource, Path: fmt.Sprintf("stores/type/%d", storeTypeID)}, &out)
	return out.Stores, err
}

func (c *Client) Create(ctx context.Context, in Input) (*Store, error) {
	var out Store
	err := c.api.Send(ctx, apiclient.Request{
		Resource:  resource,
		Method:    http.MethodPost,
		Path:      "stores/create",
		Multipart: in.multipart(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id int64, in Input) (*Store, error) {
	var out Store
	err := c.api.Send(ctx, apiclient.Request{
		Resource:  resource,
		Method:    http.MethodPut,
		Path:      fmt.Sprintf("stores/update/%d", id),
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
		Path:     fmt.Sprintf("stores/%d", id),
	}, nil)
}

func (c *Client) ToggleStatus(ctx context.Context, id int64) (*Flags, error) {
	return c.patch(ctx, fmt.Sprintf("stores/toggle-status/%d", id))
}

func (c *Client) Verify(ctx context.Context, id int64) (*Flags, error) {
	return c.patch(ctx, fmt.Sprintf("stores/%d/verify", id))
}

func (c *Client) ToggleFeatured(ctx context.Context, id int64) (*Flags, error) {
	return c.patch(ctx, fmt.Sprintf("stores/%d/featured", id))
}

func (c *Client) patch(ctx context.Context, path string) (*Flags, error) {
	var out Flags
	err := c.api.Send(ctx, apiclient.Request{
		Resource: resource,
		Method:   http.MethodPatch,
		Path:     path,
		JSON:     struct{}{},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (in Input) multipart() *apiclient.Multipart {
	return apiclient.NewMultipart().
		Field("name", in.Name).
		Field("place_id", strconv.FormatInt(in.PlaceID, 10)).
		Field("store_type_id", strconv.FormatInt(in.StoreTypeID, 10)).
		OptionalField("phone", in.Phone).
		OptionalField("address", in.Address).
		OptionalField("start_time", in.StartTime).
		OptionalField("end_time", in.EndTime).
		File("logo", in.Logo).
		File("banner", in.Banner)
}
