package crawler

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	scrollScript     = `window.scrollTo(0, document.body.scrollHeight)`
)

// ChromeRenderer drives a local headless Chrome through chromedp
type ChromeRenderer struct {
	ExecPath     string
	Timeout      time.Duration
	WaitSelector string
	WaitTimeout  time.Duration
	ScrollSteps  int
	ScrollPause  time.Duration
}

// NewChromeRenderer returns a renderer that scrolls 8 times with 500ms
// pauses after the page loads.
func NewChromeRenderer(execPath string, timeout time.Duration) *ChromeRenderer {
	return &ChromeRenderer{
		ExecPath:     execPath,
		Timeout:      timeout,
		WaitSelector: DefaultSelectors.Card,
		WaitTimeout:  15 * time.Second,
		ScrollSteps:  8,
		ScrollPause:  500 * time.Millisecond,
	}
}

type chromeSession struct {
	r             *ChromeRenderer
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

// Open starts a browser process. The returned session owns it.
func (r *ChromeRenderer) Open(ctx context.Context) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(browserUserAgent),
	)
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// The first Run launches the browser; it must not carry a timeout or the
	// browser would die with it.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, err
	}

	return &chromeSession{
		r:             r,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}, nil
}

func (s *chromeSession) Render(ctx context.Context, url string) (string, error) {
	runCtx, cancel := context.WithTimeout(s.browserCtx, s.r.Timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return "", err
	}

	if s.r.WaitSelector != "" {
		// Pages without cards are still worth extracting from
		waitCtx, waitCancel := context.WithTimeout(runCtx, s.r.WaitTimeout)
		_ = chromedp.Run(waitCtx, chromedp.WaitReady(s.r.WaitSelector, chromedp.ByQuery))
		waitCancel()
	}

	var html string
	if err := chromedp.Run(runCtx, s.scroll(), chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

func (s *chromeSession) scroll() chromedp.Tasks {
	tasks := chromedp.Tasks{}
	for i := 0; i < s.r.ScrollSteps; i++ {
		tasks = append(tasks,
			chromedp.Evaluate(scrollScript, nil),
			chromedp.Sleep(s.r.ScrollPause),
		)
	}
	return append(tasks, chromedp.Evaluate(`window.scrollTo(0, 0)`, nil))
}

func (s *chromeSession) Close() error {
	s.cancelBrowser()
	s.cancelAlloc()
	return nil
}
