package infrastructure

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"resume-builder/internal/usecase"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// initialViewportHeight is the height used before the page is measured; the
// screenshot always covers the full document.
const initialViewportHeight = 1056

// ChromedpCapturer rasterizes HTML with a shared headless Chrome. Each
// capture runs in its own tab with scripts disabled.
type ChromedpCapturer struct {
	BrowserPath string
	Timeout     time.Duration

	initOnce      sync.Once
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func NewChromedpCapturer(browserPath string, timeout time.Duration) *ChromedpCapturer {
	return &ChromedpCapturer{BrowserPath: browserPath, Timeout: timeout}
}

// Capture loads html into a blank tab at vp.Width CSS pixels and device
// scale vp.Scale and returns a PNG of the whole document.
func (c *ChromedpCapturer) Capture(ctx context.Context, html string, vp usecase.Viewport) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, errors.New("empty page")
	}
	if err := c.ensureBrowser(); err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(c.browserCtx)
	defer cancel()

	execCtx, cancelReq := context.WithCancel(tabCtx)
	defer cancelReq()
	go func() {
		select {
		case <-ctx.Done():
			cancelReq()
		case <-execCtx.Done():
		}
	}()
	if c.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		execCtx, cancelTimeout = context.WithTimeout(execCtx, c.Timeout)
		defer cancelTimeout()
	}

	var buf []byte
	err := chromedp.Run(execCtx,
		emulation.SetScriptExecutionDisabled(true),
		chromedp.EmulateViewport(int64(vp.Width), initialViewportHeight, chromedp.EmulateScale(vp.Scale)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.FullScreenshot(&buf, 100),
	)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Close releases Chrome if it was started.
func (c *ChromedpCapturer) Close() error {
	if c.browserCancel != nil {
		c.browserCancel()
	}
	if c.allocCancel != nil {
		c.allocCancel()
	}
	return nil
}

func (c *ChromedpCapturer) ensureBrowser() error {
	c.initOnce.Do(func() {
		opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		opts = append(opts,
			chromedp.Flag("headless", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
		if c.BrowserPath != "" {
			opts = append(opts, chromedp.ExecPath(c.BrowserPath))
		}

		c.allocCtx, c.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
		c.browserCtx, c.browserCancel = chromedp.NewContext(c.allocCtx)
	})
	if c.allocCtx == nil || c.browserCtx == nil {
		return errors.New("chrome allocator unavailable")
	}
	return nil
}
