package httpds

import (
	"context"
	"io"
)

// Source streams a remote CSV over GET.
type Source struct {
	client *Client
	url    string
}

// NewSource returns a Source that downloads url with client.
func NewSource(client *Client, url string) *Source {
	return &Source{client: client, url: url}
}

// Open issues the GET and returns the response body. Non-2xx responses are
// returned as *StatusError.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.Get(ctx, s.url, nil)
	if err != nil {
		return nil, err
	}
	if err := CheckStatus(resp); err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (s *Source) String() string { return s.url }
