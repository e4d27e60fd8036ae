package fetcher

import (
	"context"
	"errors"
	"strings"

	"github.com/cakeisdead/price-monitor/internal/products"
)

// ErrUnavailable signals that a price could not be extracted for this
// fetch attempt: the price node never appeared, a wait timed out, or the
// requested size variant does not exist on the page. It is a per-item
// outcome, never a batch failure.
var ErrUnavailable = errors.New("fetcher: price unavailable")

// PriceFetcher retrieves the current listed price for one product.
type PriceFetcher interface {
	FetchPrice(ctx context.Context, p products.Product) (string, error)
}

// ScreenshotName derives the evidence file name for an item. Spaces and
// path separators collapse to underscores so the same item always maps to
// the same file, overwritten run after run.
func ScreenshotName(item string) string {
	name := strings.ReplaceAll(item, " ", "_")
	name = strings.ReplaceAll(name, "/", "_")
	return name + ".png"
}
