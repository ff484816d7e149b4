package auth

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// userAgent replaces the automation build's default client identifier.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// stealthScript clears the automation marker before any page script runs.
const stealthScript = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`

// NewBrowserContext starts Chrome with automation-detection signals disabled
// and returns the tab context every later navigation runs in. The returned
// cancel tears down both the tab and the allocator.
func NewBrowserContext(ctx context.Context, headless bool) (context.Context, context.CancelFunc, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(1440, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	combinedCancel := func() {
		cancelBrowser()
		cancelAlloc()
	}

	// One-time session setup: network events, UA override at the protocol
	// level and the webdriver-flag shim on every new document.
	if err := chromedp.Run(browserCtx,
		network.Enable(),
		emulation.SetUserAgentOverride(userAgent),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
	); err != nil {
		combinedCancel()
		return nil, nil, fmt.Errorf("browser session setup: %w", err)
	}

	return browserCtx, combinedCancel, nil
}
