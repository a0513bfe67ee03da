package webclient

import "context"

// WebClient issues outbound HTTP requests on behalf of the relay and the
// relay API client.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)
	Close() error
}
