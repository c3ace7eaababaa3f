package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"shipment-tracker/internal/features/shipments/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRow is an in-memory listing row whose click opens its entries in the overlay.
type fakeRow struct {
	overlay    *fakeOverlay
	code       string
	codeErr    error
	text       string
	clickErr   error
	entries    []overlayEntry
	entriesErr error
	// hangs makes Entries block until the row's context is done.
	hangs bool
}

func (r *fakeRow) Code(ctx context.Context) (string, error) {
	return r.code, r.codeErr
}

func (r *fakeRow) Text(ctx context.Context) (string, error) {
	return r.text, nil
}

func (r *fakeRow) Click(ctx context.Context) error {
	if r.clickErr != nil {
		return r.clickErr
	}
	r.overlay.current = r
	return nil
}

type fakeOverlay struct {
	current  *fakeRow
	waitErr  error
	closeErr error
	closes   int
	// closeCtxErrs records ctx.Err() as seen by every Close call.
	closeCtxErrs []error
}

func (o *fakeOverlay) WaitOpen(ctx context.Context, timeout time.Duration) error {
	return o.waitErr
}

func (o *fakeOverlay) Entries(ctx context.Context) ([]overlayEntry, error) {
	if o.current == nil {
		return nil, nil
	}
	if o.current.hangs {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return o.current.entries, o.current.entriesErr
}

func (o *fakeOverlay) Close(ctx context.Context) error {
	o.closes++
	o.closeCtxErrs = append(o.closeCtxErrs, ctx.Err())
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if o.closeErr != nil {
		return o.closeErr
	}
	if o.current == nil {
		return errOverlayNotOpen
	}
	o.current = nil
	return nil
}

func described(name string) []overlayEntry {
	return []overlayEntry{
		{Label: "Weight", Value: "1.2 kg"},
		{Label: "Description", Value: name},
	}
}

// newTestPipeline returns a pipeline over overlay whose settle delays are recorded instead of slept.
func newTestPipeline(overlay *fakeOverlay, status domain.Status) (*rowPipeline, *[]time.Duration) {
	p := newRowPipeline(overlay, status, pipelineTiming{
		ModalWait:   time.Second,
		OpenSettle:  500 * time.Millisecond,
		CloseSettle: 300 * time.Millisecond,
	}, zap.NewNop())

	var slept []time.Duration
	p.sleep = func(d time.Duration) { slept = append(slept, d) }
	return p, &slept
}

func rows(rs ...*fakeRow) []listingRow {
	out := make([]listingRow, len(rs))
	for i, r := range rs {
		out[i] = r
	}
	return out
}

func TestRowPipeline_SkipsInvalidCodes(t *testing.T) {
	overlay := &fakeOverlay{}
	p, _ := newTestPipeline(overlay, domain.StatusSentToGeorgia)

	records := p.Run(context.Background(), rows(
		&fakeRow{overlay: overlay, code: "AB12345", entries: described("Shoes")},
		&fakeRow{overlay: overlay, code: "CD67890", entries: described("Books")},
		&fakeRow{overlay: overlay, code: "xx", entries: described("Ignored")},
	))

	require.Len(t, records, 2)
	assert.Equal(t, "AB12345", records[0].TrackingCode)
	assert.Equal(t, "Shoes", records[0].PackageName)
	assert.Equal(t, domain.StatusSentToGeorgia, records[0].Status)
	assert.Equal(t, "CD67890", records[1].TrackingCode)
	assert.Equal(t, "Books", records[1].PackageName)
}

func TestRowPipeline_TrimsCodeAndReadsArrival(t *testing.T) {
	overlay := &fakeOverlay{}
	p, _ := newTestPipeline(overlay, domain.StatusNotArrived)

	records := p.Run(context.Background(), rows(
		&fakeRow{overlay: overlay, code: "  AB12345\n", text: "AB12345 Shoes 15.03.2024", entries: described("Shoes")},
		&fakeRow{overlay: overlay, code: "CD67890", text: "CD67890 Books", entries: described("Books")},
	))

	require.Len(t, records, 2)
	assert.Equal(t, "AB12345", records[0].TrackingCode)
	require.NotNil(t, records[0].EstimatedArrival)
	assert.Equal(t, "15.03.2024", *records[0].EstimatedArrival)
	assert.Nil(t, records[1].EstimatedArrival)
	assert.Equal(t, domain.StatusNotArrived, records[1].Status)
}

func TestRowPipeline_RowFailureIsIsolated(t *testing.T) {
	overlay := &fakeOverlay{}
	p, _ := newTestPipeline(overlay, domain.StatusInWarehouse)

	records := p.Run(context.Background(), rows(
		&fakeRow{overlay: overlay, code: "AB12345", entries: described("Shoes")},
		&fakeRow{overlay: overlay, code: "CD67890", text: "CD67890 2024-03-16", entriesErr: errors.New("node detached")},
		&fakeRow{overlay: overlay, code: "EF24680", clickErr: errors.New("element covered")},
		&fakeRow{overlay: overlay, code: "GH13579", entries: described("Lamp")},
	))

	require.Len(t, records, 4)
	assert.Equal(t, []string{"AB12345", "CD67890", "EF24680", "GH13579"}, codes(records))

	assert.Equal(t, "Shoes", records[0].PackageName)
	assert.Equal(t, domain.DefaultPackageName, records[1].PackageName)
	require.NotNil(t, records[1].EstimatedArrival)
	assert.Equal(t, "2024-03-16", *records[1].EstimatedArrival)
	assert.Equal(t, domain.DefaultPackageName, records[2].PackageName)
	assert.Equal(t, "Lamp", records[3].PackageName)

	for _, r := range records {
		assert.Equal(t, domain.StatusInWarehouse, r.Status)
	}
	// Every valid row attempts a close, including the failed ones.
	assert.Equal(t, 4, overlay.closes)
}

func TestRowPipeline_ClosesOverlayAfterRowTimeout(t *testing.T) {
	overlay := &fakeOverlay{}
	p, _ := newTestPipeline(overlay, domain.StatusSentToGeorgia)
	p.timing.RowTimeout = 50 * time.Millisecond

	records := p.Run(context.Background(), rows(
		&fakeRow{overlay: overlay, code: "AB12345", entries: described("Shoes"), hangs: true},
		&fakeRow{overlay: overlay, code: "CD67890", entries: described("Books")},
	))

	require.Len(t, records, 2)
	assert.Equal(t, domain.DefaultPackageName, records[0].PackageName)
	assert.Equal(t, "Books", records[1].PackageName)

	// The timed-out row still closes its overlay with a live context.
	assert.Equal(t, []error{nil, nil}, overlay.closeCtxErrs)
	assert.Nil(t, overlay.current)
}

func TestRowPipeline_CodeReadFailureSkipsRow(t *testing.T) {
	overlay := &fakeOverlay{}
	p, slept := newTestPipeline(overlay, domain.StatusSentToGeorgia)

	records := p.Run(context.Background(), rows(
		&fakeRow{overlay: overlay, codeErr: errors.New("stale element")},
		&fakeRow{overlay: overlay, code: "AB12345", entries: described("Shoes")},
	))

	require.Len(t, records, 1)
	assert.Equal(t, "AB12345", records[0].TrackingCode)
	// Only the valid row waits.
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 300 * time.Millisecond}, *slept)
}

func TestRowPipeline_MissingDescriptionUsesDefault(t *testing.T) {
	overlay := &fakeOverlay{}
	p, _ := newTestPipeline(overlay, domain.StatusSentToGeorgia)

	records := p.Run(context.Background(), rows(
		&fakeRow{overlay: overlay, code: "AB12345", entries: []overlayEntry{{Label: "Weight", Value: "2 kg"}}},
		&fakeRow{overlay: overlay, code: "CD67890", entries: []overlayEntry{{Label: "Description", Value: "  "}}},
		&fakeRow{overlay: overlay, code: "EF24680"},
	))

	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, "Parcel", r.PackageName)
	}
}

func TestRowPipeline_DescriptionLabelVariants(t *testing.T) {
	overlay := &fakeOverlay{}
	p, _ := newTestPipeline(overlay, domain.StatusSentToGeorgia)

	records := p.Run(context.Background(), rows(
		&fakeRow{overlay: overlay, code: "AB12345", entries: []overlayEntry{{Label: "Item description:", Value: "Headphones"}}},
		&fakeRow{overlay: overlay, code: "CD67890", entries: []overlayEntry{{Label: "DESCRIPTION", Value: "Phone case"}}},
		&fakeRow{overlay: overlay, code: "EF24680", entries: []overlayEntry{{Label: "ამანათის აღწერა", Value: "Jacket"}}},
	))

	require.Len(t, records, 3)
	assert.Equal(t, "Headphones", records[0].PackageName)
	assert.Equal(t, "Phone case", records[1].PackageName)
	assert.Equal(t, "Jacket", records[2].PackageName)
}

func TestRowPipeline_ToleratesMissingMarkerAndCloseFailure(t *testing.T) {
	overlay := &fakeOverlay{
		waitErr:  context.DeadlineExceeded,
		closeErr: errors.New("close button detached"),
	}
	p, slept := newTestPipeline(overlay, domain.StatusSentToGeorgia)

	records := p.Run(context.Background(), rows(
		&fakeRow{overlay: overlay, code: "AB12345", entries: described("Shoes")},
		&fakeRow{overlay: overlay, code: "CD67890", entries: described("Books")},
	))

	require.Len(t, records, 2)
	assert.Equal(t, "Shoes", records[0].PackageName)
	assert.Equal(t, "Books", records[1].PackageName)
	// Settle delays elapse in full regardless of the overlay's state.
	assert.Len(t, *slept, 4)
}

func TestRowPipeline_StopsWhenCancelled(t *testing.T) {
	overlay := &fakeOverlay{}
	p, _ := newTestPipeline(overlay, domain.StatusSentToGeorgia)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := p.Run(ctx, rows(&fakeRow{overlay: overlay, code: "AB12345", entries: described("Shoes")}))
	assert.Empty(t, records)
}

func codes(records []domain.ShipmentRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.TrackingCode
	}
	return out
}
