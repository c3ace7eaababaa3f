package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"shipment-tracker/internal/core/config"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/shipments/domain"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	tokenField = "__RequestVerificationToken"
	// maxEnvelopeSize caps the customs response body.
	maxEnvelopeSize = 1 << 20
)

// CustomsAdapter fetches customs status through the public search portal.
type CustomsAdapter struct {
	cfg    config.CustomsConfig
	client *http.Client
	logger *zap.Logger
}

// NewCustomsAdapter creates a new CustomsAdapter posting searches with client.
func NewCustomsAdapter(cfg config.CustomsConfig, client *http.Client) *CustomsAdapter {
	return &CustomsAdapter{
		cfg:    cfg,
		client: client,
		logger: logger.Named("customs"),
	}
}

// FetchStatus runs one lookup attempt on tab. Any failure is returned so the
// caller can retry the whole attempt on a fresh tab.
func (a *CustomsAdapter) FetchStatus(ctx context.Context, tab *CustomsTab, code string) (*domain.LookupResult, error) {
	page, err := tab.load(ctx, a.cfg.SearchURL, a.cfg.APIURL)
	if err != nil {
		return nil, err
	}
	return a.search(ctx, code, page)
}

// search posts the lookup form using the token and cookies of a loaded search page.
func (a *CustomsAdapter) search(ctx context.Context, code string, page *searchPage) (*domain.LookupResult, error) {
	token, err := extractToken(page.HTML)
	if err != nil {
		return nil, err
	}

	form := url.Values{
		"searchType": {a.cfg.SearchType},
		"code":       {code},
		"lang":       {a.cfg.Lang},
		tokenField:   {token},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.APIURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build customs request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	for _, c := range page.Cookies {
		req.AddCookie(c)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("customs request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("customs search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxEnvelopeSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read customs response: %w", err)
	}

	result, err := domain.ParseEnvelope(code, body)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("Customs lookup finished",
		zap.String("tracking_code", code),
		zap.Bool("has_data", result.HasData),
		zap.Int("fields", len(result.Fields)),
	)
	return result, nil
}

// extractToken reads the anti-forgery token from the search page markup.
func extractToken(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse customs search page: %w", err)
	}

	token, ok := doc.Find(`input[name="` + tokenField + `"]`).First().Attr("value")
	if !ok || strings.TrimSpace(token) == "" {
		return "", errors.New("anti-forgery token not found on customs search page")
	}
	return token, nil
}
