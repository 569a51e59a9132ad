// Package crawler implements the resilient extraction core: last-page
// navigation, row extraction and the cascading target search, all on top
// of the browser.Session capability.
package crawler

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/finwatch/ratecrawl/browser"
)

const (
	// LastPageOffset is added to the highest visible page number when
	// estimating the last page. The true last page is not discoverable
	// through the pagination widget, so this stays a named guess.
	LastPageOffset = 10

	bodyWaitTimeout       = 10 * time.Second
	structuralWaitTimeout = 5 * time.Second
	retryProbeTimeout     = 2 * time.Second
)

const (
	bodyXPath = "//body"

	// lastPageAnchorXPath is the fixed structural path of the last-page
	// control on the Daum listing. Brittle by nature; the cascade below
	// covers the cases where the layout shifted.
	lastPageAnchorXPath = "/html/body/div/div[4]/div/div[4]/div[3]/div[2]/div/div/a[11]"

	// pageAnchorXPathFmt parametrizes the same structural path by its
	// trailing anchor index, for the retry probe.
	pageAnchorXPathFmt = "/html/body/div/div[4]/div/div[4]/div[3]/div[2]/div/div/a[%d]"

	paginationAnchorsXPath = "//div[contains(@class, 'tableUI-navigate')]/a | //div[contains(@class, 'pagination')]/a"

	numericAnchorsXPath = "//div[contains(@class, 'tableUI-navigate')]/a[string-length(text()) = 1 or string-length(text()) = 2]"
)

// lastPageLabels are the visible texts recognised as a last/next-block
// pagination control.
var lastPageLabels = []string{"마지막", "끝", ">>", ">|", "Last"}

// PageNavigator drives a session towards the page believed to hold the
// target records.
type PageNavigator struct {
	// BaseURL is the listing page, used for the numeric-estimate jump.
	BaseURL string

	// SettleAfterClick and SettleAfterJump are fixed pauses after a
	// triggered navigation. Render completion is never verified beyond
	// them; a navigation counts as successful once the action fired.
	SettleAfterClick time.Duration
	SettleAfterJump  time.Duration

	log *slog.Logger
}

// NewPageNavigator returns a navigator with the production settle pauses.
func NewPageNavigator(baseURL string) *PageNavigator {
	return &PageNavigator{
		BaseURL:          baseURL,
		SettleAfterClick: 2 * time.Second,
		SettleAfterJump:  3 * time.Second,
		log:              slog.Default().With("component", "navigator"),
	}
}

// AdvanceToLastPage tries, in order: the fixed structural last-page
// control, a label-matched pagination anchor, and a direct URL jump to an
// estimated last page. It returns true as soon as any attempt triggers a
// navigation action, false when all three fail. It never returns an
// error; the caller proceeds on whatever page is loaded.
func (n *PageNavigator) AdvanceToLastPage(s browser.Session) bool {
	if _, err := s.WaitForElement(bodyXPath, bodyWaitTimeout); err != nil {
		n.log.Error("page body never appeared", "error", err)
		return false
	}

	if n.clickStructuralAnchor(s) {
		return true
	}
	if n.clickLabeledAnchor(s) {
		return true
	}
	return n.jumpToEstimatedPage(s)
}

// clickStructuralAnchor locates the last-page control by its fixed path
// and fires its click handler through the automation layer.
func (n *PageNavigator) clickStructuralAnchor(s browser.Session) bool {
	el, err := s.WaitForElement(lastPageAnchorXPath, structuralWaitTimeout)
	if err != nil {
		n.log.Warn("structural last-page control not found", "error", err)
		return false
	}
	if text, err := el.Text(); err == nil {
		n.log.Info("last-page control located", "text", strings.TrimSpace(text))
	}
	if err := el.ScriptClick(); err != nil {
		n.log.Warn("structural last-page click failed", "error", err)
		return false
	}
	time.Sleep(n.SettleAfterClick)
	return true
}

// clickLabeledAnchor scans the pagination anchors for a known last-page
// label and clicks the first match.
func (n *PageNavigator) clickLabeledAnchor(s browser.Session) bool {
	anchors, err := s.ElementsX(paginationAnchorsXPath)
	if err != nil {
		n.log.Warn("pagination anchors not found", "error", err)
		return false
	}
	for _, a := range anchors {
		text, err := a.Text()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if !isLastPageLabel(text) {
			continue
		}
		if err := a.ScriptClick(); err != nil {
			n.log.Warn("labeled last-page click failed", "label", text, "error", err)
			return false
		}
		n.log.Info("labeled last-page control clicked", "label", text)
		time.Sleep(n.SettleAfterClick)
		return true
	}
	n.log.Warn("no last-page label among pagination anchors")
	return false
}

// jumpToEstimatedPage reads the numeric pagination anchors, estimates the
// last page as the highest visible number plus LastPageOffset, and
// navigates there directly via the page URL. The estimate is a heuristic,
// not a guarantee.
func (n *PageNavigator) jumpToEstimatedPage(s browser.Session) bool {
	anchors, err := s.ElementsX(numericAnchorsXPath)
	if err != nil {
		n.log.Warn("numeric pagination anchors not found", "error", err)
		return false
	}

	highest := 0
	for _, a := range anchors {
		text, err := a.Text()
		if err != nil {
			continue
		}
		if num, err := strconv.Atoi(strings.TrimSpace(text)); err == nil && num > highest {
			highest = num
		}
	}
	if highest == 0 {
		return false
	}

	estimated := highest + LastPageOffset
	js := fmt.Sprintf("() => { window.location.href = '%s?page=%d' }", n.BaseURL, estimated)
	if err := s.RunScript(js); err != nil {
		n.log.Warn("estimated-page jump failed", "page", estimated, "error", err)
		return false
	}
	n.log.Info("jumped to estimated last page", "page", estimated, "highestVisible", highest)
	time.Sleep(n.SettleAfterJump)
	return true
}

// retryLastPage probes the structural anchor path from index 11 down to 1
// and clicks the first control that exists. Used by the search cascade
// when the first pass missed the target.
func (n *PageNavigator) retryLastPage(s browser.Session) bool {
	for index := 11; index >= 1; index-- {
		xpath := fmt.Sprintf(pageAnchorXPathFmt, index)
		el, err := s.WaitForElement(xpath, retryProbeTimeout)
		if err != nil {
			continue
		}
		if text, terr := el.Text(); terr == nil {
			n.log.Info("retry probe found control", "index", index, "text", strings.TrimSpace(text))
		}
		if err := el.ScriptClick(); err != nil {
			n.log.Warn("retry probe click failed", "index", index, "error", err)
			continue
		}
		time.Sleep(n.SettleAfterJump)
		return true
	}
	n.log.Warn("retry probe exhausted without a clickable control")
	return false
}

func isLastPageLabel(text string) bool {
	for _, label := range lastPageLabels {
		if text == label {
			return true
		}
	}
	return false
}
