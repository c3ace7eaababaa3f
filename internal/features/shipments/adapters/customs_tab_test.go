package adapter

import (
	"context"
	"testing"
	"time"

	"shipment-tracker/internal/core/browser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomsTabFactory_CreateRespectsContext(t *testing.T) {
	factory := NewCustomsTabFactory(browser.Options{Headless: true})
	defer factory.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tab, err := factory.Create(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, tab)
	// No browser is started for a cancelled creation.
	assert.Nil(t, factory.inst)
}

func TestCustomsTabFactory_TabOutlivesCreationContext(t *testing.T) {
	requireBrowser(t)
	factory := NewCustomsTabFactory(browser.Options{Headless: true})
	defer factory.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	tab, err := factory.Create(ctx)
	cancel()
	require.NoError(t, err)
	defer factory.Destroy(tab)

	require.NoError(t, tab.page.Context(t.Context()).Navigate("about:blank"))
}
