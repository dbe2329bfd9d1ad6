package scrapper

import (
	"context"
	"errors"
	"fmt"

	"scrapper/internal/browser"
)

// fakeElement is a node on a fakePage, kept in document order.
type fakeElement struct {
	tag     string
	text    string
	value   string
	clicks  int
	focused bool
}

// fakeDriver records calls and serves a canned document.
type fakeDriver struct {
	launchErr  error
	newPageErr error
	closeErr   error

	launches int
	sessions []*fakeSession
	pages    map[string][]*fakeElement // url -> elements
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{pages: map[string][]*fakeElement{}}
}

func (d *fakeDriver) Launch(ctx context.Context) (browser.Session, error) {
	d.launches++
	if d.launchErr != nil {
		return nil, d.launchErr
	}
	s := &fakeSession{driver: d}
	d.sessions = append(d.sessions, s)
	return s, nil
}

type fakeSession struct {
	driver *fakeDriver
	page   *fakePage
	closes int
}

func (s *fakeSession) NewPage(ctx context.Context) (browser.Page, error) {
	if s.driver.newPageErr != nil {
		return nil, s.driver.newPageErr
	}
	s.page = &fakePage{driver: s.driver}
	return s.page, nil
}

func (s *fakeSession) Close() error {
	s.closes++
	return s.driver.closeErr
}

type fakePage struct {
	driver   *fakeDriver
	url      string
	elements []*fakeElement
	enters   int
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	elements, ok := p.driver.pages[url]
	if !ok {
		return fmt.Errorf("net::ERR_NAME_NOT_RESOLVED %s", url)
	}
	p.url = url
	p.elements = elements
	return nil
}

func (p *fakePage) Type(ctx context.Context, selector, text string) error {
	el := p.first(selector)
	if el == nil {
		return fmt.Errorf("%w: %s", browser.ErrElementNotFound, selector)
	}
	el.focused = true
	for _, r := range text {
		el.value += string(r)
	}
	return nil
}

func (p *fakePage) PressEnter(ctx context.Context) error {
	p.enters++
	return nil
}

func (p *fakePage) Click(ctx context.Context, selector string) error {
	el := p.first(selector)
	if el == nil {
		return fmt.Errorf("%w: %s", browser.ErrElementNotFound, selector)
	}
	el.clicks++
	return nil
}

func (p *fakePage) Texts(ctx context.Context, selector string) ([]string, error) {
	var out []string
	for _, el := range p.all(selector) {
		out = append(out, el.text)
	}
	return out, nil
}

func (p *fakePage) HTMLs(ctx context.Context, selector string) ([]string, error) {
	var out []string
	for _, el := range p.all(selector) {
		out = append(out, fmt.Sprintf("<%s>%s</%s>", el.tag, el.text, el.tag))
	}
	return out, nil
}

// Selectors are matched against the tag name verbatim.
func (p *fakePage) all(selector string) []*fakeElement {
	var out []*fakeElement
	for _, el := range p.elements {
		if el.tag == selector {
			out = append(out, el)
		}
	}
	return out
}

func (p *fakePage) first(selector string) *fakeElement {
	if els := p.all(selector); len(els) > 0 {
		return els[0]
	}
	return nil
}

var errBoom = errors.New("boom")
