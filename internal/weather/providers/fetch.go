package providers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/glasscast/weathercore/internal/weather"
)

// fetchJSON issues a GET request and decodes the body into v, mapping
// transport, status and decode failures to the typed weather error set.
// No retries happen here; retry is composed by the caller.
func fetchJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return weather.ErrInvalidURL(err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return weather.ErrNetwork(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return weather.ErrInvalidAPIKey()
	case resp.StatusCode == http.StatusTooManyRequests:
		return weather.ErrRateLimited()
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return weather.ErrHTTP(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return weather.ErrDecoding(err)
	}
	return nil
}
