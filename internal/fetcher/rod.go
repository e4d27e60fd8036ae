package fetcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"github.com/cakeisdead/price-monitor/internal/products"
)

const (
	defaultPriceXPath = `(//div[@id='corePrice_feature_div']//span[@class='a-offscreen'])[1]`
	defaultSizeXPath  = `//span[contains(@class, 'swatch-title-text') and contains(text(), %q)]` +
		`/ancestor::span[@class='a-button-inner']/input`
)

// RodOptions parameterise the browser-automation fetcher.
type RodOptions struct {
	Headless      bool
	Timeout       time.Duration
	ScreenshotDir string
	// PriceXPath locates the price node. Defaults to the retail layout the
	// monitor was built against.
	PriceXPath string
	// SizeXPathFormat is a format string receiving the size label and
	// producing the variant swatch selector.
	SizeXPathFormat string
}

// Rod fetches prices by driving a real browser, one session per call.
type Rod struct {
	opts   RodOptions
	logger zerolog.Logger
}

// NewRod constructs a browser-automation fetcher.
func NewRod(opts RodOptions, logger zerolog.Logger) *Rod {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.PriceXPath == "" {
		opts.PriceXPath = defaultPriceXPath
	}
	if opts.SizeXPathFormat == "" {
		opts.SizeXPathFormat = defaultSizeXPath
	}
	return &Rod{
		opts:   opts,
		logger: logger.With().Str("component", "rod_fetcher").Logger(),
	}
}

// FetchPrice opens a fresh browser, navigates to the product page, selects
// the size variant when one is requested, and reads the price node text.
// The session is torn down on every exit path. Timeouts and missing
// elements surface as ErrUnavailable; anything else is a wrapped fetch
// error the batch driver absorbs per item.
func (f *Rod) FetchPrice(ctx context.Context, p products.Product) (string, error) {
	browser, cleanup, err := f.launch()
	if err != nil {
		return "", fmt.Errorf("launch browser: %w", err)
	}
	defer cleanup()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}
	page = page.Context(ctx).Timeout(f.opts.Timeout)

	if err := page.Navigate(p.URL); err != nil {
		return "", classify(err, "navigate to %s", p.URL)
	}
	if err := page.WaitLoad(); err != nil {
		return "", classify(err, "wait for page load")
	}

	if p.Size != "" {
		if err := f.selectSize(page, p.Size); err != nil {
			return "", err
		}
	}

	price, priceErr := f.readPrice(page)

	// Evidence capture happens whether or not a price was found, mirroring
	// what a human checking the page would keep. Failure here is logged and
	// swallowed; the observation matters more than the picture.
	if err := f.screenshot(page, p.Name); err != nil {
		f.logger.Warn().Err(err).Str("item", p.Name).Msg("screenshot failed")
	}

	return price, priceErr
}

func (f *Rod) launch() (*rod.Browser, func(), error) {
	l := launcher.New().Headless(f.opts.Headless)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, nil, err
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, nil, err
	}

	cleanup := func() {
		if err := browser.Close(); err != nil {
			f.logger.Debug().Err(err).Msg("browser close failed")
		}
		l.Cleanup()
	}
	return browser, cleanup, nil
}

func (f *Rod) selectSize(page *rod.Page, size string) error {
	selector := fmt.Sprintf(f.opts.SizeXPathFormat, size)
	swatch, err := page.ElementX(selector)
	if err != nil {
		return classify(err, "find size variant %q", size)
	}
	if err := swatch.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return classify(err, "select size variant %q", size)
	}
	if err := page.WaitLoad(); err != nil {
		return classify(err, "wait after size selection")
	}
	return nil
}

func (f *Rod) readPrice(page *rod.Page) (string, error) {
	node, err := page.ElementX(f.opts.PriceXPath)
	if err != nil {
		return "", classify(err, "find price node")
	}
	text, err := node.Text()
	if err != nil {
		return "", classify(err, "read price node")
	}
	return strings.TrimSpace(text), nil
}

func (f *Rod) screenshot(page *rod.Page, item string) error {
	if f.opts.ScreenshotDir == "" {
		return nil
	}
	if err := os.MkdirAll(f.opts.ScreenshotDir, 0o755); err != nil {
		return err
	}

	data, err := page.Screenshot(false, nil)
	if err != nil {
		return err
	}

	path := filepath.Join(f.opts.ScreenshotDir, ScreenshotName(item))
	return os.WriteFile(path, data, 0o644)
}

// classify maps deadline errors onto ErrUnavailable and wraps everything
// else with the failed step.
func classify(err error, format string, args ...interface{}) error {
	step := fmt.Sprintf(format, args...)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", step, ErrUnavailable)
	}
	return fmt.Errorf("%s: %w", step, err)
}

var _ PriceFetcher = (*Rod)(nil)
