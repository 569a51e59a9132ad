// Package browser provides the browser-session capability consumed by the
// crawler: one exclusively-owned automation session per invocation, with
// explicit release. The rod-backed implementation lives in rod.go; tests
// substitute fakes.
package browser

import (
	"context"
	"time"
)

// Element is a handle to one located DOM element. Handles can go stale if
// the page mutates after lookup; every method returns an error in that
// case and callers treat it as a per-element failure.
type Element interface {
	// Text returns the element's visible text.
	Text() (string, error)

	// Elements finds descendant elements by CSS selector.
	Elements(selector string) ([]Element, error)

	// ScriptClick invokes the element's click handler through the
	// automation layer rather than a native pointer click, so off-screen
	// or obscured controls still trigger.
	ScriptClick() error
}

// Session is one exclusively-owned browser session. It is not safe for
// concurrent use; an invocation owns its session until Release.
type Session interface {
	// Navigate loads the given URL.
	Navigate(url string) error

	// WaitForElement blocks until an element matching the XPath exists,
	// or the timeout elapses.
	WaitForElement(xpath string, timeout time.Duration) (Element, error)

	// ElementsX finds all elements matching the XPath on the current page.
	ElementsX(xpath string) ([]Element, error)

	// RunScript evaluates JavaScript in the page context.
	RunScript(js string) error

	// HTML returns the current rendered document.
	HTML() (string, error)

	// Release tears the session down. Safe to call more than once; only
	// the first call does anything.
	Release()
}

// Factory creates sessions. The production factory launches a headless
// browser per call.
type Factory interface {
	NewSession(ctx context.Context) (Session, error)
}
