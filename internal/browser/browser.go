package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultElementTimeout is how long Type and Click wait for a selector to match.
const DefaultElementTimeout = 10 * time.Second

// Config controls how the browser process is launched.
type Config struct {
	Headless       bool
	ProxyURL       string        // optional, e.g. http://127.0.0.1:7890
	Bin            string        // browser binary; empty lets rod download or find one
	ElementTimeout time.Duration // element wait window, DefaultElementTimeout when zero
}

// DefaultConfig returns a headless configuration.
func DefaultConfig() Config {
	return Config{
		Headless:       true,
		ElementTimeout: DefaultElementTimeout,
	}
}

// Launcher is the rod-backed Driver.
type Launcher struct {
	cfg Config
}

// New creates a Launcher. Nothing is started until Launch is called.
func New(cfg Config) *Launcher {
	if cfg.ElementTimeout <= 0 {
		cfg.ElementTimeout = DefaultElementTimeout
	}
	return &Launcher{cfg: cfg}
}

// Config returns the launcher configuration.
func (l *Launcher) Config() Config {
	return l.cfg
}

// Launch starts a browser process and connects to it over CDP.
func (l *Launcher) Launch(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ln := launcher.New().Headless(l.cfg.Headless)
	if l.cfg.ProxyURL != "" {
		ln = ln.Proxy(l.cfg.ProxyURL)
	}
	if l.cfg.Bin != "" {
		ln = ln.Bin(l.cfg.Bin)
	}

	wsURL, err := ln.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		ln.Kill()
		ln.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Browser{
		browser:        b,
		launcher:       ln,
		elementTimeout: l.cfg.ElementTimeout,
	}, nil
}

// Browser wraps a rod.Browser and the launcher that owns its process.
type Browser struct {
	browser        *rod.Browser
	launcher       *launcher.Launcher
	elementTimeout time.Duration
}

// NewPage opens a blank tab.
func (b *Browser) NewPage(ctx context.Context) (Page, error) {
	page, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	// Drop the creation context so later calls are bound only to their own ctx.
	return &rodPage{page: page.Context(context.Background()), elementTimeout: b.elementTimeout}, nil
}

// Close closes the browser and kills its process.
func (b *Browser) Close() error {
	var closeErr error
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			closeErr = fmt.Errorf("failed to close browser: %w", err)
		}
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
	return closeErr
}
