package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Portal markup.
const (
	rowSelector          = "table.parcels tbody tr"
	rowCodeSelector      = "td.tracking-code"
	overlayMarker        = ".parcel-modal.show"
	overlayEntrySelector = ".parcel-modal.show .detail-item"
	overlayLabelSelector = ".detail-label"
	overlayValueSelector = ".detail-value"
	overlayCloseSelector = ".parcel-modal.show .modal-close"
)

var errOverlayNotOpen = errors.New("detail overlay is not open")

// rodRow adapts a listing row element.
type rodRow struct {
	el *rod.Element
}

func (r rodRow) Code(ctx context.Context) (string, error) {
	cells, err := r.el.Context(ctx).Elements(rowCodeSelector)
	if err != nil {
		return "", err
	}
	if cells.Empty() {
		return "", errors.New("row has no tracking code cell")
	}
	return cells.First().Text()
}

func (r rodRow) Text(ctx context.Context) (string, error) {
	return r.el.Context(ctx).Text()
}

func (r rodRow) Click(ctx context.Context) error {
	return r.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}

// rodOverlay adapts the listing page's detail panel.
type rodOverlay struct {
	page *rod.Page
}

func (o rodOverlay) WaitOpen(ctx context.Context, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := o.page.Context(waitCtx).Element(overlayMarker)
	return err
}

func (o rodOverlay) Entries(ctx context.Context) ([]overlayEntry, error) {
	items, err := o.page.Context(ctx).Elements(overlayEntrySelector)
	if err != nil {
		return nil, err
	}

	entries := make([]overlayEntry, 0, len(items))
	for _, item := range items {
		label, err := childText(item, overlayLabelSelector)
		if err != nil {
			return nil, fmt.Errorf("read label: %w", err)
		}
		value, err := childText(item, overlayValueSelector)
		if err != nil {
			return nil, fmt.Errorf("read value: %w", err)
		}
		entries = append(entries, overlayEntry{Label: label, Value: value})
	}
	return entries, nil
}

func (o rodOverlay) Close(ctx context.Context) error {
	buttons, err := o.page.Context(ctx).Elements(overlayCloseSelector)
	if err != nil {
		return err
	}
	if buttons.Empty() {
		return errOverlayNotOpen
	}
	return buttons.First().Click(proto.InputMouseButtonLeft, 1)
}

// childText returns the text of the first match of selector under el, or "" when absent.
func childText(el *rod.Element, selector string) (string, error) {
	found, err := el.Elements(selector)
	if err != nil {
		return "", err
	}
	if found.Empty() {
		return "", nil
	}
	text, err := found.First().Text()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// listingRows returns the rendered rows of the current page, waiting up to wait for the
// first one. A listing that renders no rows within wait is empty, not an error.
func listingRows(ctx context.Context, page *rod.Page, wait time.Duration) ([]listingRow, error) {
	waitCtx, cancel := context.WithTimeout(ctx, wait)
	_, err := page.Context(waitCtx).Element(rowSelector)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}

	els, err := page.Context(ctx).Elements(rowSelector)
	if err != nil {
		return nil, fmt.Errorf("failed to list rows: %w", err)
	}

	rows := make([]listingRow, len(els))
	for i, el := range els {
		rows[i] = rodRow{el: el}
	}
	return rows, nil
}
