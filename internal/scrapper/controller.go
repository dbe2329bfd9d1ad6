// Package scrapper drives a single browser page: start it, navigate, fill and
// submit a field, click, scrape text, stop.
package scrapper

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"scrapper/internal/browser"
)

// State is the controller lifecycle phase.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// session exists only while the controller is ready.
type session struct {
	browser browser.Session
	page    browser.Page
}

// Controller owns one browser process and one page in it.
// Calls are serialized; Stop must be called on every exit path to release the
// browser process.
type Controller struct {
	driver browser.Driver
	opts   Options

	mu      sync.Mutex
	state   State
	session *session
}

// New creates an uninitialized controller. No browser is launched until Start.
func New(driver browser.Driver, opts Options) *Controller {
	return &Controller{
		driver: driver,
		opts:   opts,
	}
}

// Options returns the options the controller was created with.
func (c *Controller) Options() Options {
	return c.opts
}

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start launches the browser and opens a page.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUninitialized {
		return fmt.Errorf("%w (state %s)", ErrAlreadyStarted, c.state)
	}

	b, err := c.driver.Launch(ctx)
	if err != nil {
		return &LaunchError{Err: err}
	}

	page, err := b.NewPage(ctx)
	if err != nil {
		_ = b.Close()
		return &LaunchError{Err: err}
	}

	c.session = &session{browser: b, page: page}
	c.state = StateReady
	return nil
}

// NavigateTo loads url in the page and waits for it to finish loading.
func (c *Controller) NavigateTo(ctx context.Context, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	page, err := c.page("navigate")
	if err != nil {
		return err
	}

	if err := page.Navigate(ctx, url); err != nil {
		return &NavigationError{URL: url, Err: err}
	}
	return nil
}

// PerformSearch types inputValue into the element matching selector and
// presses Enter.
func (c *Controller) PerformSearch(ctx context.Context, selector, inputValue string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	page, err := c.page("perform search")
	if err != nil {
		return err
	}

	if err := page.Type(ctx, selector, inputValue); err != nil {
		return elementError(selector, err)
	}
	if err := page.PressEnter(ctx); err != nil {
		return err
	}
	return nil
}

// ClickOnElement clicks the first element matching selector.
func (c *Controller) ClickOnElement(ctx context.Context, selector string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	page, err := c.page("click")
	if err != nil {
		return err
	}

	if err := page.Click(ctx, selector); err != nil {
		return elementError(selector, err)
	}
	return nil
}

// GetTextFromElements returns the rendered text of every element matching
// selector, in document order. No match yields an empty slice.
func (c *Controller) GetTextFromElements(ctx context.Context, selector string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	page, err := c.page("get text")
	if err != nil {
		return nil, err
	}

	texts, err := page.Texts(ctx, selector)
	if err != nil {
		return nil, err
	}
	if texts == nil {
		texts = []string{}
	}
	return texts, nil
}

// GetHTMLFromElements returns the outer HTML of every element matching
// selector, in document order.
func (c *Controller) GetHTMLFromElements(ctx context.Context, selector string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	page, err := c.page("get html")
	if err != nil {
		return nil, err
	}

	htmls, err := page.HTMLs(ctx, selector)
	if err != nil {
		return nil, err
	}
	if htmls == nil {
		htmls = []string{}
	}
	return htmls, nil
}

// Stop closes the browser. It is a no-op before Start and after a previous
// Stop. The controller is stopped even if closing the browser fails.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return nil
	}

	s := c.session
	c.session = nil
	c.state = StateStopped

	if err := s.browser.Close(); err != nil {
		return fmt.Errorf("failed to stop browser: %w", err)
	}
	return nil
}

func (c *Controller) page(op string) (browser.Page, error) {
	if c.state != StateReady {
		return nil, &NotInitializedError{Op: op, State: c.state}
	}
	return c.session.page, nil
}

func elementError(selector string, err error) error {
	if errors.Is(err, browser.ErrElementNotFound) {
		return &ElementNotFoundError{Selector: selector, Err: err}
	}
	return err
}
