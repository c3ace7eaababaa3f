package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shipment-tracker/internal/features/shipments/domain"

	"go.uber.org/zap"
)

// listingRow is one rendered row of a shipment listing.
type listingRow interface {
	// Code returns the text of the row's tracking-code cell.
	Code(ctx context.Context) (string, error)
	// Text returns the row's full visible text.
	Text(ctx context.Context) (string, error)
	// Click opens the row's detail overlay.
	Click(ctx context.Context) error
}

// detailOverlay is the single detail panel shared by every row of a listing.
type detailOverlay interface {
	// WaitOpen waits up to timeout for the overlay marker.
	WaitOpen(ctx context.Context, timeout time.Duration) error
	// Entries returns the overlay's label/value pairs.
	Entries(ctx context.Context) ([]overlayEntry, error)
	// Close clicks the overlay's close control.
	Close(ctx context.Context) error
}

type overlayEntry struct {
	Label string
	Value string
}

// defaultCloseTimeout bounds the overlay close when pipelineTiming leaves it unset.
const defaultCloseTimeout = 5 * time.Second

// descriptionLabels are the lower-cased overlay labels that carry the package name.
var descriptionLabels = []string{"description", "აღწერა"}

// pipelineTiming holds the row state machine's waits.
type pipelineTiming struct {
	// RowTimeout bounds every browser call made for one row.
	RowTimeout time.Duration
	// ModalWait bounds the best-effort wait for the overlay marker.
	ModalWait time.Duration
	// OpenSettle always elapses after the overlay wait.
	OpenSettle time.Duration
	// CloseSettle always elapses after the close attempt.
	CloseSettle time.Duration
	// CloseTimeout bounds the close attempt, which runs outside the row's deadline.
	CloseTimeout time.Duration
}

// rowPipeline walks a listing row by row:
//
//	Scanning -> CodeValidated -> ModalOpening -> ModalReady -> FieldExtracted -> ModalClosed
//
// Any failure after the code is validated moves the row to RowFailed, which yields a
// fallback record. Rows never affect each other.
type rowPipeline struct {
	overlay detailOverlay
	status  domain.Status
	timing  pipelineTiming
	sleep   func(time.Duration)
	logger  *zap.Logger
}

func newRowPipeline(overlay detailOverlay, status domain.Status, timing pipelineTiming, log *zap.Logger) *rowPipeline {
	return &rowPipeline{
		overlay: overlay,
		status:  status,
		timing:  timing,
		sleep:   time.Sleep,
		logger:  log,
	}
}

// Run processes rows strictly in order and returns the emitted and fallback records.
func (p *rowPipeline) Run(ctx context.Context, rows []listingRow) []domain.ShipmentRecord {
	outcomes := make([]domain.RowOutcome, 0, len(rows))

	for i, row := range rows {
		if ctx.Err() != nil {
			p.logger.Warn("Listing extraction interrupted",
				zap.Int("row", i),
				zap.Int("rows", len(rows)),
				zap.Error(ctx.Err()),
			)
			break
		}

		outcome := p.processRow(ctx, row)
		switch outcome.Kind {
		case domain.OutcomeSkipped:
			p.logger.Debug("Row skipped", zap.Int("row", i), zap.Error(outcome.Err))
		case domain.OutcomeFallback:
			p.logger.Warn("Row extraction failed, using fallback record",
				zap.Int("row", i),
				zap.String("tracking_code", outcome.Record.TrackingCode),
				zap.Error(outcome.Err),
			)
		}
		outcomes = append(outcomes, outcome)
	}

	return domain.ReduceOutcomes(outcomes)
}

func (p *rowPipeline) processRow(ctx context.Context, row listingRow) domain.RowOutcome {
	rowCtx := ctx
	if p.timing.RowTimeout > 0 {
		var cancel context.CancelFunc
		rowCtx, cancel = context.WithTimeout(ctx, p.timing.RowTimeout)
		defer cancel()
	}

	// Scanning
	raw, err := row.Code(rowCtx)
	if err != nil {
		return domain.Skipped(fmt.Errorf("failed to read tracking code: %w", err))
	}
	code := strings.TrimSpace(raw)
	if !domain.IsValidTrackingCode(code) {
		return domain.Skipped(fmt.Errorf("%w: %q", domain.ErrInvalidTrackingCode, code))
	}

	// CodeValidated
	record := domain.ShipmentRecord{
		TrackingCode: code,
		PackageName:  domain.DefaultPackageName,
		Status:       p.status,
	}
	if text, err := row.Text(rowCtx); err == nil {
		record.EstimatedArrival = domain.FindArrival(text)
	}

	name, err := p.describe(rowCtx, row)
	p.attemptClose(ctx)
	if err != nil {
		return domain.Fallback(record, err)
	}

	record.PackageName = name
	return domain.Emitted(record)
}

// describe runs ModalOpening through FieldExtracted and returns the package name.
func (p *rowPipeline) describe(ctx context.Context, row listingRow) (string, error) {
	if err := row.Click(ctx); err != nil {
		return "", fmt.Errorf("failed to open detail overlay: %w", err)
	}

	if err := p.overlay.WaitOpen(ctx, p.timing.ModalWait); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("failed to wait for detail overlay: %w", err)
		}
		p.logger.Debug("Overlay marker not seen, reading anyway", zap.Error(err))
	}
	p.sleep(p.timing.OpenSettle)

	entries, err := p.overlay.Entries(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read detail overlay: %w", err)
	}
	return packageName(entries), nil
}

// attemptClose closes the overlay and discards the result. It is cleanup only:
// a failed close is logged and the next row proceeds regardless.
// The close gets its own deadline so a row that ran out of time still closes its overlay.
func (p *rowPipeline) attemptClose(ctx context.Context) {
	timeout := p.timing.CloseTimeout
	if timeout <= 0 {
		timeout = defaultCloseTimeout
	}
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := p.overlay.Close(closeCtx); err != nil && !errors.Is(err, errOverlayNotOpen) {
		p.logger.Debug("Overlay close failed", zap.Error(err))
	}
	p.sleep(p.timing.CloseSettle)
}

// packageName returns the value of the first description entry, or the default name.
func packageName(entries []overlayEntry) string {
	for _, e := range entries {
		label := strings.ToLower(strings.TrimSpace(e.Label))
		for _, target := range descriptionLabels {
			if !strings.Contains(label, target) {
				continue
			}
			if v := strings.TrimSpace(e.Value); v != "" {
				return v
			}
			return domain.DefaultPackageName
		}
	}
	return domain.DefaultPackageName
}
