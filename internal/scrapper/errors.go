package scrapper

import (
	"errors"
	"fmt"
)

var (
	ErrNotInitialized  = errors.New("browser page not initialized")
	ErrLaunch          = errors.New("browser launch failed")
	ErrNavigation      = errors.New("navigation failed")
	ErrElementNotFound = errors.New("element not found")
	ErrAlreadyStarted  = errors.New("controller already started")
)

// NotInitializedError is returned by page operations before Start succeeded
// or after Stop.
type NotInitializedError struct {
	Op    string
	State State
}

func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("%s: %v (state %s)", e.Op, ErrNotInitialized, e.State)
}

func (e *NotInitializedError) Unwrap() error { return ErrNotInitialized }

// LaunchError is returned by Start when the browser or its first page could
// not be created.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("%v: %v", ErrLaunch, e.Err)
}

func (e *LaunchError) Unwrap() []error { return []error{ErrLaunch, e.Err} }

// NavigationError is returned when a URL could not be loaded.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrNavigation, e.URL, e.Err)
}

func (e *NavigationError) Unwrap() []error { return []error{ErrNavigation, e.Err} }

// ElementNotFoundError is returned when a selector matched nothing within the
// element wait window.
type ElementNotFoundError struct {
	Selector string
	Err      error
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("%v: %s", ErrElementNotFound, e.Selector)
}

func (e *ElementNotFoundError) Unwrap() []error { return []error{ErrElementNotFound, e.Err} }
