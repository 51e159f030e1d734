package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/summitpoint/quotedesk/internal/adapters/clients"
)

// BaseAdapter carries the pieces every collaborator adapter needs: the
// instrumented client and the collaborator's name for error mapping.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a base adapter.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: serviceName,
	}
}

// ServiceName returns the collaborator's name.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// get performs a GET and maps failures to domain errors. The caller owns
// the returned body.
func (a *BaseAdapter) get(ctx context.Context, path, operation, entityID string) (io.ReadCloser, error) {
	return a.finish(a.client.Get(ctx, path))(operation, entityID)
}

// post performs a POST with a JSON body.
func (a *BaseAdapter) post(ctx context.Context, path string, body io.Reader, operation, entityID string) (io.ReadCloser, error) {
	return a.finish(a.client.Post(ctx, path, body))(operation, entityID)
}

// put performs a PUT with a JSON body.
func (a *BaseAdapter) put(ctx context.Context, path string, body io.Reader, operation, entityID string) (io.ReadCloser, error) {
	return a.finish(a.client.Put(ctx, path, body))(operation, entityID)
}

// del performs a DELETE.
func (a *BaseAdapter) del(ctx context.Context, path, operation, entityID string) (io.ReadCloser, error) {
	return a.finish(a.client.Delete(ctx, path))(operation, entityID)
}

func (a *BaseAdapter) finish(resp *http.Response, err error) func(operation, entityID string) (io.ReadCloser, error) {
	return func(operation, entityID string) (io.ReadCloser, error) {
		if err != nil {
			return nil, MapHTTPError(nil, err, a.serviceName, operation, entityID)
		}

		if resp.StatusCode >= http.StatusBadRequest {
			defer func() { _ = resp.Body.Close() }()

			return nil, MapHTTPError(resp, nil, a.serviceName, operation, entityID)
		}

		return resp.Body, nil
	}
}

// DecodeResponse decodes a JSON body into T and closes it.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, fmt.Errorf("response body is nil")
	}
	defer func() { _ = body.Close() }()

	var result T
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}
