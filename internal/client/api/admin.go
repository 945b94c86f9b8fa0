package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
)

// Resource is one /admin collection of reference entities.
type Resource[T models.Reference] struct {
	c    *Client
	path string
}

func Brands(c *Client) Resource[models.CarBrand] {
	return Resource[models.CarBrand]{c: c, path: "/admin/car-brands"}
}

func CarModels(c *Client) Resource[models.CarModel] {
	return Resource[models.CarModel]{c: c, path: "/admin/car-models"}
}

func Companies(c *Client) Resource[models.RentACar] {
	return Resource[models.RentACar]{c: c, path: "/admin/rent-a-cars"}
}

func Locations(c *Client) Resource[models.StoreLocation] {
	return Resource[models.StoreLocation]{c: c, path: "/admin/store-locations"}
}

func (r Resource[T]) Path() string { return r.path }

// List returns the collection; filter carries brand_id or rent_a_car_id.
func (r Resource[T]) List(ctx context.Context, filter url.Values) ([]T, error) {
	resp, err := r.c.Request(ctx, r.path, WithQuery(filter))
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope[[]T](resp, true)
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []T{}, nil
	}
	return env.Data, nil
}

func (r Resource[T]) Create(ctx context.Context, v T) (T, error) {
	if err := v.Validate(); err != nil {
		var zero T
		return zero, err
	}
	resp, err := r.c.Request(ctx, r.path, post(v)...)
	if err != nil {
		var zero T
		return zero, err
	}
	env, err := decodeEnvelope[T](resp, true)
	return env.Data, err
}

func (r Resource[T]) Update(ctx context.Context, id int64, v T) (T, error) {
	if err := v.Validate(); err != nil {
		var zero T
		return zero, err
	}
	resp, err := r.c.Request(ctx, fmt.Sprintf("%s/%d", r.path, id), WithMethod(http.MethodPut), WithJSON(v))
	if err != nil {
		var zero T
		return zero, err
	}
	env, err := decodeEnvelope[T](resp, true)
	return env.Data, err
}

// Delete removes an entity and returns the backend's confirmation message.
func (r Resource[T]) Delete(ctx context.Context, id int64) (string, error) {
	resp, err := r.c.Request(ctx, fmt.Sprintf("%s/%d", r.path, id), WithMethod(http.MethodDelete))
	if err != nil {
		return "", err
	}
	env, err := decodeEnvelope[struct{}](resp, false)
	return env.Message, err
}
