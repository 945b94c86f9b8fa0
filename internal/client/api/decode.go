package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
	"github.com/tidwall/gjson"
)

// decodeObject requires a JSON object holding every key in required.
func decodeObject[T any](resp *Response, required ...string) (T, error) {
	var v T
	if !resp.JSON() {
		return v, fmt.Errorf("%w: body is not JSON", ErrMalformedResponse)
	}
	doc := gjson.ParseBytes(resp.Body)
	if !doc.IsObject() {
		return v, fmt.Errorf("%w: expected an object", ErrMalformedResponse)
	}
	for _, key := range required {
		if !doc.Get(key).Exists() {
			return v, fmt.Errorf("%w: missing %q", ErrMalformedResponse, key)
		}
	}
	if err := json.Unmarshal(resp.Body, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return v, nil
}

// decodeList requires a JSON array.
func decodeList[T any](resp *Response) ([]T, error) {
	if !resp.JSON() {
		return nil, fmt.Errorf("%w: body is not JSON", ErrMalformedResponse)
	}
	if !gjson.ParseBytes(resp.Body).IsArray() {
		return nil, fmt.Errorf("%w: expected an array", ErrMalformedResponse)
	}
	v := []T{}
	if err := json.Unmarshal(resp.Body, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return v, nil
}

// decodeEnvelope unwraps an admin {success, data, message} reply. A 2xx reply
// with success=false is reported as ErrValidation.
func decodeEnvelope[T any](resp *Response, needData bool) (models.Envelope[T], error) {
	env, err := decodeObject[models.Envelope[T]](resp, "success")
	if err != nil {
		return env, err
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request was not accepted"
		}
		return env, fmt.Errorf("%w: %s", ErrValidation, msg)
	}
	if needData && !gjson.GetBytes(resp.Body, "data").Exists() {
		return env, fmt.Errorf("%w: missing %q", ErrMalformedResponse, "data")
	}
	return env, nil
}

func getObject[T any](ctx context.Context, c *Client, endpoint string, required []string, opts ...Option) (T, error) {
	resp, err := c.Request(ctx, endpoint, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeObject[T](resp, required...)
}

func getList[T any](ctx context.Context, c *Client, endpoint string, opts ...Option) ([]T, error) {
	resp, err := c.Request(ctx, endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return decodeList[T](resp)
}

func post(body any) []Option {
	opts := []Option{WithMethod(http.MethodPost)}
	if body != nil {
		opts = append(opts, WithJSON(body))
	}
	return opts
}
