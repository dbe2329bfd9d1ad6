package browser

import (
	"context"
	"errors"
)

// ErrElementNotFound is returned when no element matches a selector within
// the element wait window.
var ErrElementNotFound = errors.New("element not found")

// Driver launches browser sessions.
type Driver interface {
	Launch(ctx context.Context) (Session, error)
}

// Session is a running browser process.
type Session interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is a single tab inside a Session.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Type(ctx context.Context, selector, text string) error
	PressEnter(ctx context.Context) error
	Click(ctx context.Context, selector string) error
	Texts(ctx context.Context, selector string) ([]string, error)
	HTMLs(ctx context.Context, selector string) ([]string, error)
}
