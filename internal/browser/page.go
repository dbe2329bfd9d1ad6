package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

const (
	textsJS = `(selector) => Array.from(document.querySelectorAll(selector), el => el.innerText ?? el.textContent ?? "")`
	htmlsJS = `(selector) => Array.from(document.querySelectorAll(selector), el => el.outerHTML)`
)

type rodPage struct {
	page           *rod.Page
	elementTimeout time.Duration
}

// Navigate loads url and waits for the load event.
func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to wait for page load: %w", err)
	}
	return nil
}

// Type focuses the first element matching selector and inserts text one rune
// at a time. The element is focused even when text is empty, so a following
// PressEnter submits its form.
func (p *rodPage) Type(ctx context.Context, selector, text string) error {
	el, err := p.element(ctx, selector)
	if err != nil {
		return err
	}
	if err := el.Focus(); err != nil {
		return fmt.Errorf("failed to focus %s: %w", selector, err)
	}

	page := p.page.Context(ctx)
	for _, r := range text {
		if err := page.InsertText(string(r)); err != nil {
			return fmt.Errorf("failed to type into %s: %w", selector, err)
		}
	}
	return nil
}

// PressEnter sends an Enter key event to the focused element.
func (p *rodPage) PressEnter(ctx context.Context) error {
	if err := p.page.Context(ctx).Keyboard.Press(input.Enter); err != nil {
		return fmt.Errorf("failed to press enter: %w", err)
	}
	return nil
}

// Click clicks the first element matching selector.
func (p *rodPage) Click(ctx context.Context, selector string) error {
	el, err := p.element(ctx, selector)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to click element: %w", err)
	}
	return nil
}

// Texts returns the rendered text of every element matching selector.
func (p *rodPage) Texts(ctx context.Context, selector string) ([]string, error) {
	return p.evalStrings(ctx, textsJS, selector)
}

// HTMLs returns the outer HTML of every element matching selector.
func (p *rodPage) HTMLs(ctx context.Context, selector string) ([]string, error) {
	return p.evalStrings(ctx, htmlsJS, selector)
}

// element waits up to the element timeout for selector to match. The returned
// element is bound to ctx without the wait deadline.
func (p *rodPage) element(ctx context.Context, selector string) (*rod.Element, error) {
	waiting := p.page.Context(ctx).Timeout(p.elementTimeout)
	defer waiting.CancelTimeout()

	el, err := waiting.Element(selector)
	if err != nil {
		var notFound *rod.ElementNotFoundError
		if errors.As(err, &notFound) || (errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil) {
			return nil, fmt.Errorf("%w: %s", ErrElementNotFound, selector)
		}
		return nil, fmt.Errorf("failed to find element %s: %w", selector, err)
	}
	return el.Context(ctx), nil
}

// evalStrings runs a single evaluation over all matches instead of one call
// per element, which keeps document order and avoids per-element round trips.
func (p *rodPage) evalStrings(ctx context.Context, js, selector string) ([]string, error) {
	res, err := p.page.Context(ctx).Eval(js, selector)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", selector, err)
	}

	return toStrings(res.Value.Arr()), nil
}

// toStrings converts an evaluation result array. null entries become "".
func toStrings(arr []gson.JSON) []string {
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if v.Nil() {
			out = append(out, "")
			continue
		}
		out = append(out, v.Str())
	}
	return out
}

var (
	_ Driver  = (*Launcher)(nil)
	_ Session = (*Browser)(nil)
	_ Page    = (*rodPage)(nil)
)
