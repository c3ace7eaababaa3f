package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"shipment-tracker/internal/core/browser"
	"shipment-tracker/internal/core/config"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/shipments/domain"
	"shipment-tracker/internal/features/shipments/ports"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Login form markup.
const (
	emailSelector    = `input[type="email"], input[name="email"]`
	passwordSelector = `input[type="password"]`
	submitSelector   = `button[type="submit"], input[type="submit"]`
)

// PortalSessionAdapter opens authenticated sessions on the account portal.
// Every session runs in its own browser process.
type PortalSessionAdapter struct {
	cfg     config.PortalConfig
	browser browser.Options
	logger  *zap.Logger
}

// NewPortalSessionAdapter creates a new PortalSessionAdapter.
func NewPortalSessionAdapter(cfg config.PortalConfig, opts browser.Options) *PortalSessionAdapter {
	return &PortalSessionAdapter{
		cfg:     cfg,
		browser: opts,
		logger:  logger.Named("portal"),
	}
}

// Open launches a browser and logs in. On any error the browser is already closed.
func (a *PortalSessionAdapter) Open(ctx context.Context, creds domain.Credentials) (ports.Session, error) {
	id := uuid.NewString()
	log := a.logger.With(zap.String("session_id", id))

	inst, err := browser.Launch(ctx, a.browser)
	if err != nil {
		return nil, fmt.Errorf("failed to start session browser: %w", err)
	}

	s := &PortalSession{
		id:     id,
		cfg:    a.cfg,
		inst:   inst,
		logger: log,
	}

	if err := s.login(ctx, creds); err != nil {
		s.Close()
		return nil, err
	}

	log.Info("Portal session opened")
	return s, nil
}

// PortalSession is one logged-in browser. It is used by a single request.
type PortalSession struct {
	id     string
	cfg    config.PortalConfig
	inst   *browser.Instance
	page   *rod.Page
	logger *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

func (s *PortalSession) login(ctx context.Context, creds domain.Credentials) error {
	page, err := s.inst.Browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("failed to open session page: %w", err)
	}
	s.page = page

	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavTimeout)
	defer cancel()
	p := page.Context(navCtx)

	if err := p.Navigate(s.url(s.cfg.LoginPath)); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}

	email, err := p.Element(emailSelector)
	if err != nil {
		return fmt.Errorf("email input not found: %w", err)
	}
	password, err := p.Element(passwordSelector)
	if err != nil {
		return fmt.Errorf("password input not found: %w", err)
	}
	if err := email.WaitVisible(); err != nil {
		return fmt.Errorf("email input not interactive: %w", err)
	}
	if err := password.WaitVisible(); err != nil {
		return fmt.Errorf("password input not interactive: %w", err)
	}
	if err := email.Input(creds.Email); err != nil {
		return fmt.Errorf("failed to fill email: %w", err)
	}
	if err := password.Input(creds.Password); err != nil {
		return fmt.Errorf("failed to fill password: %w", err)
	}

	submit, err := p.Element(submitSelector)
	if err != nil {
		return fmt.Errorf("submit button not found: %w", err)
	}

	loginCtx, cancelLogin := context.WithTimeout(ctx, s.cfg.LoginTimeout)
	defer cancelLogin()
	wait := page.Context(loginCtx).WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)

	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to submit login form: %w", err)
	}
	wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	info, err := page.Context(ctx).Info()
	if err != nil {
		return fmt.Errorf("failed to read page after login: %w", err)
	}
	if onPath(info.URL, s.cfg.LoginPath) {
		s.logger.Info("Portal rejected credentials")
		return domain.ErrInvalidCredentials
	}
	return nil
}

// ExtractListing opens the category's listing and extracts its rows.
func (s *PortalSession) ExtractListing(ctx context.Context, category domain.Category) ([]domain.ShipmentRecord, error) {
	path, err := s.categoryPath(category)
	if err != nil {
		return nil, err
	}
	log := s.logger.With(zap.String("category", string(category)))

	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavTimeout)
	err = s.page.Context(navCtx).Navigate(s.url(path))
	if err == nil {
		err = s.page.Context(navCtx).WaitLoad()
	}
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s listing: %w", category, err)
	}

	rows, err := listingRows(ctx, s.page, s.cfg.RowsWaitTimeout)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		log.Debug("Listing is empty")
		return []domain.ShipmentRecord{}, nil
	}

	pipeline := newRowPipeline(rodOverlay{page: s.page}, category.DefaultStatus(), pipelineTiming{
		RowTimeout:   s.cfg.NavTimeout,
		ModalWait:    s.cfg.ModalWaitTimeout,
		OpenSettle:   s.cfg.ModalOpenSettle,
		CloseSettle:  s.cfg.ModalCloseSettle,
		CloseTimeout: s.cfg.ModalCloseTimeout,
	}, log)

	records := pipeline.Run(ctx, rows)
	log.Info("Listing extracted",
		zap.Int("rows", len(rows)),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// Close tears down the page, the browser process and any proxy forwarder.
func (s *PortalSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.inst.Close()
		s.logger.Debug("Portal session closed")
	})
	return s.closeErr
}

func (s *PortalSession) categoryPath(category domain.Category) (string, error) {
	switch category {
	case domain.CategoryInTransit:
		return s.cfg.InTransitPath, nil
	case domain.CategoryExpected:
		return s.cfg.ExpectedPath, nil
	case domain.CategoryWarehouse:
		return s.cfg.WarehousePath, nil
	default:
		return "", fmt.Errorf("unknown category %q", category)
	}
}

func (s *PortalSession) url(path string) string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + path
}

// onPath reports whether rawURL points at path, ignoring query and trailing slash.
func onPath(rawURL, path string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.TrimRight(u.Path, "/") == strings.TrimRight(path, "/")
}
