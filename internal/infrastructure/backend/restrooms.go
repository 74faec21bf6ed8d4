package backend

import (
	"context"
	"net/http"

	"github.com/sngm3741/ku-toilet-map/web/internal/public/domain"
)

// FetchCatalog calls GET /restrooms/details.
func (c *Client) FetchCatalog(ctx context.Context) ([]domain.CatalogEntry, error) {
	var items []RestroomDetails
	if err := c.do(ctx, request{op: "fetch catalog", method: http.MethodGet, path: "/restrooms/details"}, &items); err != nil {
		return nil, err
	}
	entries := make([]domain.CatalogEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, toCatalogEntry(item))
	}
	return entries, nil
}
