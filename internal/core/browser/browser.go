// Package browser launches the Chromium processes used by portal sessions and
// the customs lookup pool.
package browser

import (
	"context"
	"errors"
	"fmt"

	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/core/proxy"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"go.uber.org/zap"
)

// Options controls a browser launch.
type Options struct {
	// Headless runs the browser without a window.
	Headless bool
	// Bin is an explicit browser binary; empty lets rod resolve one.
	Bin string
	// Proxy is the optional upstream proxy.
	Proxy proxy.Settings
}

// Instance is a launched browser together with everything that must be torn down with it.
type Instance struct {
	// Browser is the connected rod browser.
	Browser *rod.Browser

	launcher  *launcher.Launcher
	launched  bool
	forwarder *proxy.ForwardingProxy
	logger    *zap.Logger
}

// Launch starts a browser process and connects to it. ctx bounds the wait for the
// browser to come up, not the lifetime of the process.
// On error nothing is left running.
func Launch(ctx context.Context, opts Options) (*Instance, error) {
	log := logger.Named("browser")
	inst := &Instance{logger: log}

	l := launcher.New().
		Context(ctx).
		Headless(opts.Headless).
		NoSandbox(true).
		Leakless(true)

	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}

	switch {
	case opts.Proxy.HasCredentials():
		fwd, err := proxy.NewForwardingProxy(opts.Proxy.FullURL())
		if err != nil {
			return nil, fmt.Errorf("failed to create proxy forwarder: %w", err)
		}
		addr, err := fwd.Start()
		if err != nil {
			return nil, fmt.Errorf("failed to start proxy forwarder: %w", err)
		}
		inst.forwarder = fwd
		l = l.Proxy(addr)
	case opts.Proxy.HasProxy():
		l = l.Proxy(opts.Proxy.HostPort())
	}
	inst.launcher = l

	log.Debug("Launching browser...",
		zap.Bool("headless", opts.Headless),
		zap.Bool("proxy_enabled", opts.Proxy.HasProxy()),
	)

	u, err := l.Launch()
	if err != nil {
		inst.Close()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	inst.launched = true

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		inst.Close()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	inst.Browser = b

	return inst, nil
}

// Close shuts the browser, kills the process and stops the proxy forwarder.
// It is safe to call on a partially launched instance.
func (i *Instance) Close() error {
	var errs []error

	if i.Browser != nil {
		if err := i.Browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
		i.Browser = nil
	}
	if i.launched {
		i.launched = false
		i.launcher.Kill()
		i.launcher.Cleanup()
	}
	if i.forwarder != nil {
		if err := i.forwarder.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop proxy forwarder: %w", err))
		}
		i.forwarder = nil
	}

	err := errors.Join(errs...)
	if err != nil {
		i.logger.Debug("Browser teardown reported errors", zap.Error(err))
	}
	return err
}

// Available reports whether a local Chromium can be found without downloading one.
func Available() bool {
	_, ok := launcher.LookPath()
	return ok
}
