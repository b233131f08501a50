package booking

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rendis/hotelrank/internal/model"
)

const (
	locationsPath  = "/hotels/locations"
	locationLocale = "en-us"
)

// ResolveDestination looks up name and returns the first match.
// An empty result is ErrDestinationNotFound.
func (c *Client) ResolveDestination(ctx context.Context, name string) (model.Destination, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("locale", locationLocale)

	raw, err := c.getJSON(ctx, locationsPath, params)
	if err != nil {
		return model.Destination{}, fmt.Errorf("resolving destination %q: %w", name, err)
	}

	matches, ok := raw.([]any)
	if !ok {
		return model.Destination{}, fmt.Errorf("resolving destination %q: %w: expected array", name, ErrMalformedResponse)
	}
	if len(matches) == 0 {
		return model.Destination{}, fmt.Errorf("resolving destination %q: %w", name, ErrDestinationNotFound)
	}

	first := matches[0]
	d := model.Destination{
		ID:    safeString(safeGet(first, "dest_id")),
		Type:  safeString(safeGet(first, "dest_type")),
		Name:  safeString(safeGet(first, "name")),
		Label: safeString(safeGet(first, "label")),
		Lat:   safeFloat(safeGet(first, "latitude")),
		Lon:   safeFloat(safeGet(first, "longitude")),
	}
	if d.ID == "" {
		return model.Destination{}, fmt.Errorf("resolving destination %q: %w", name, ErrDestinationNotFound)
	}
	if d.Type == "" {
		d.Type = "city"
	}
	return d, nil
}
