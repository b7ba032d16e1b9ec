package profile

import (
	"context"
	"net/http"

	"github.com/angelmondragon/delivery-admin/pkg/apiclient"
)

const resource = "profile"

// Client wraps the profile endpoints, which answer under a "user" key.
type Client struct {
	api *apiclient.Client
}

func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

func (c *Client) Get(ctx context.Context) (*Profile, error) {
	var out Profile
	err := c.api.Get(ctx, apiclient.Request{
		Resource:      resource,
		Path:          "auth/get-profile",
		Authenticated: true,
		Envelope:      apiclient.EnvelopeUser,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, in Input) (*Profile, error) {
	var out Profile
	err := c.api.Send(ctx, apiclient.Request{
		Resource: resource,
		Method:   http.MethodPut,
		Path:     "auth/update-profile",
		Multipart: apiclient.NewMultipart().
			OptionalField("name", in.Name).
			OptionalField("email", in.Email).
			OptionalField("phone", in.Phone).
			File("avatar", in.Avatar),
		Envelope: apiclient.EnvelopeUser,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
