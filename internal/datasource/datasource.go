// Package datasource opens the byte stream the CSV chunk reader consumes.
// Locations with an http:// or https:// prefix are fetched through the shared
// httpds client; everything else is treated as a local path.
package datasource

import (
	"context"
	"io"
	"strings"

	"bizimport/internal/datasource/file"
	"bizimport/internal/datasource/httpds"
)

// Source is anything that can be opened once for sequential reading.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// ForLocation picks a Source for loc. client may be nil for local paths; a
// nil client with a URL location gets one without an overall deadline.
func ForLocation(loc string, client *httpds.Client) Source {
	lower := strings.ToLower(loc)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		if client == nil {
			client = httpds.NewClient(httpds.Config{NoTimeout: true})
		}
		return httpds.NewSource(client, loc)
	}
	return file.NewLocal(loc)
}
