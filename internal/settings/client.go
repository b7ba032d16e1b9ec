package settings

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/angelmondragon/delivery-admin/pkg/apiclient"
)

const resource = "settings"

// Client wraps the settings endpoints.
type Client struct {
	api *apiclient.Client
}

func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// Get returns the main settings row, or nil when none exists yet.
func (c *Client) Get(ctx context.Context) (*Setting, error) {
	var out *Setting
	err := c.api.Get(ctx, apiclient.Request{Resource: resource, Path: "settings"}, &out)
	return out, err
}

func (c *Client) Create(ctx context.Context, in Input) (*Setting, error) {
	var out Setting
	err := c.api.Send(ctx, apiclient.Request{
		Resource:  resource,
		Method:    http.MethodPost,
		Path:      "settings/create",
		Multipart: in.multipart(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id int64, in Input) (*Setting, error) {
	var out Setting
	err := c.api.Send(ctx, apiclient.Request{
		Resource:  resource,
		Method:    http.MethodPut,
		Path:      fmt.Sprintf("settings/update/%d", id),
		Multipart: in.multipart(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ToggleMaintenance(ctx context.Context, id int64, req MaintenanceRequest) (*Setting, error) {
	var out Setting
	err := c.api.Send(ctx, apiclient.Request{
		Resource: resource,
		Method:   http.MethodPatch,
		Path:     fmt.Sprintf("settings/maintenance/%d", id),
		JSON:     req,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (in Input) multipart() *apiclient.Multipart {
	m := apiclient.NewMultipart().
		Field("name_en", in.NameEn).
		Field("name_ar", in.NameAr).
		Field("version", in.Version).
		Field("description", in.Description).
		Field("url", in.URL).
		Field("email", in.Email).
		Field("phone", in.Phone).
		Field("address", in.Address)
	for _, kv := range in.Social.Fields() {
		m.Field(kv[0], kv[1])
	}
	m.Field("maintenance_mode", strconv.FormatBool(in.MaintenanceMode))
	for _, kv := range in.Support.Fields() {
		m.OptionalField(kv[0], kv[1])
	}
	return m.
		OptionalField("maintenance_message", in.MaintenanceMessage).
		File("logo", in.Logo).
		File("banner", in.Banner)
}
