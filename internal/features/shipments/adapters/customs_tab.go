package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"shipment-tracker/internal/core/browser"
	"shipment-tracker/internal/core/logger"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// blockedResources are never fetched by customs tabs.
var blockedResources = []proto.NetworkResourceType{
	proto.NetworkResourceTypeImage,
	proto.NetworkResourceTypeStylesheet,
	proto.NetworkResourceTypeFont,
}

// CustomsTab is a pooled incognito page used for customs lookups.
type CustomsTab struct {
	incognito *rod.Browser
	page      *rod.Page
	router    *rod.HijackRouter
}

// searchPage is the customs search page as loaded in a tab.
type searchPage struct {
	HTML    string
	Cookies []*http.Cookie
}

// load navigates to searchURL and returns its markup plus the cookies that apply to apiURL.
func (t *CustomsTab) load(ctx context.Context, searchURL, apiURL string) (*searchPage, error) {
	page := t.page.Context(ctx)

	if err := page.Navigate(searchURL); err != nil {
		return nil, fmt.Errorf("failed to open customs search page: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("customs search page did not load: %w", err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read customs search page: %w", err)
	}

	cookies, err := page.Cookies([]string{apiURL})
	if err != nil {
		return nil, fmt.Errorf("failed to read customs cookies: %w", err)
	}

	sp := &searchPage{HTML: html, Cookies: make([]*http.Cookie, 0, len(cookies))}
	for _, c := range cookies {
		sp.Cookies = append(sp.Cookies, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return sp, nil
}

func (t *CustomsTab) close() error {
	var errs []error
	if t.router != nil {
		if err := t.router.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if t.page != nil {
		if err := t.page.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if t.incognito != nil {
		if err := t.incognito.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CustomsTabFactory creates customs tabs in one shared browser, launched on first use.
type CustomsTabFactory struct {
	opts   browser.Options
	logger *zap.Logger

	mu   sync.Mutex
	inst *browser.Instance
}

// NewCustomsTabFactory creates a new CustomsTabFactory.
func NewCustomsTabFactory(opts browser.Options) *CustomsTabFactory {
	return &CustomsTabFactory{
		opts:   opts,
		logger: logger.Named("customs"),
	}
}

// Create opens an incognito tab whose requests for images, stylesheets and fonts fail.
// ctx bounds the launch and the creation calls; the tab itself outlives ctx.
func (f *CustomsTabFactory) Create(ctx context.Context) (*CustomsTab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := f.browser(ctx)
	if err != nil {
		return nil, err
	}

	tab := &CustomsTab{}
	incognito, err := b.Context(ctx).Incognito()
	if err != nil {
		return nil, fmt.Errorf("failed to create incognito context: %w", err)
	}
	tab.incognito = incognito.Context(b.GetContext())

	target, err := proto.TargetCreateTarget{
		URL:              "about:blank",
		BrowserContextID: tab.incognito.BrowserContextID,
	}.Call(tab.incognito.Context(ctx))
	if err != nil {
		tab.close()
		return nil, fmt.Errorf("failed to open customs tab: %w", err)
	}

	// The page session lives on the browser's context, not on ctx.
	tab.page, err = tab.incognito.PageFromTarget(target.TargetID)
	if err != nil {
		tab.close()
		return nil, fmt.Errorf("failed to attach customs tab: %w", err)
	}

	router := tab.page.HijackRequests()
	for _, rt := range blockedResources {
		if err := router.Add("*", rt, blockRequest); err != nil {
			router.Stop()
			tab.close()
			return nil, fmt.Errorf("failed to block %s requests: %w", rt, err)
		}
	}
	tab.router = router
	go router.Run()

	return tab, nil
}

// Destroy closes the tab and its incognito context.
func (f *CustomsTabFactory) Destroy(tab *CustomsTab) error {
	return tab.close()
}

// Close shuts the shared browser. Call it after the pool is shut down.
func (f *CustomsTabFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.inst == nil {
		return nil
	}
	err := f.inst.Close()
	f.inst = nil
	return err
}

func (f *CustomsTabFactory) browser(ctx context.Context) (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.inst != nil {
		return f.inst.Browser, nil
	}

	inst, err := browser.Launch(ctx, f.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start customs browser: %w", err)
	}
	f.inst = inst
	f.logger.Info("Customs browser started")
	return inst.Browser, nil
}

func blockRequest(h *rod.Hijack) {
	h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
}
