package schema

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SchemaURL is where the application publishes its config schema.
const SchemaURL = "https://opencode.ai/config.json"

// Fetch source labels, recorded in the cache metadata sidecar.
const (
	SourceDownloaded = "downloaded"
	SourceBundled    = "bundled"
)

const fetchTimeout = 15 * time.Second

// maxSchemaSize caps the response body. The real schema is well under
// a megabyte; anything larger is not the schema.
const maxSchemaSize = 4 << 20

// Fetch retrieves the current schema with a single request, no retries.
// On any network or server failure it falls back to the bundled copy
// and reports the failure alongside, so callers can cache the fallback
// and still tell the user why the download did not happen.
func Fetch(ctx context.Context) (content []byte, source string, fetchErr error) {
	data, err := download(ctx)
	if err != nil {
		return Bundled(), SourceBundled, err
	}
	return data, SourceDownloaded, nil
}

func download(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, SchemaURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch schema: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch schema: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSchemaSize))
	if err != nil {
		return nil, fmt.Errorf("read schema response: %w", err)
	}
	return data, nil
}
