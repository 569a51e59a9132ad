package crawler

import (
	"context"
	"errors"
	"time"

	"github.com/finwatch/ratecrawl/browser"
)

// fakeElement implements browser.Element for tests.
type fakeElement struct {
	session  *fakeSession
	text     string
	textErr  error
	tds      []*fakeElement
	ths      []*fakeElement
	cellErr  error
	clickErr error
	clicks   int
}

func (e *fakeElement) Text() (string, error) {
	return e.text, e.textErr
}

func (e *fakeElement) Elements(selector string) ([]browser.Element, error) {
	if e.cellErr != nil {
		return nil, e.cellErr
	}
	switch selector {
	case "td":
		return toElements(e.tds), nil
	case "th":
		return toElements(e.ths), nil
	}
	return nil, nil
}

func (e *fakeElement) ScriptClick() error {
	if e.clickErr != nil {
		return e.clickErr
	}
	e.clicks++
	if e.session != nil {
		e.session.elementClicked()
	}
	return nil
}

func toElements(els []*fakeElement) []browser.Element {
	out := make([]browser.Element, len(els))
	for i, el := range els {
		out[i] = el
	}
	return out
}

// rowOf builds a table row from td texts.
func rowOf(cells ...string) *fakeElement {
	row := &fakeElement{}
	for _, c := range cells {
		row.tds = append(row.tds, &fakeElement{text: c})
	}
	return row
}

// fakeSession implements browser.Session. Element sets are keyed by the
// exact XPath the code under test asks for; swapOnClick replaces the set
// after any script click, simulating a page navigation.
type fakeSession struct {
	elements    map[string][]*fakeElement
	swapOnClick map[string][]*fakeElement
	html        string
	htmlErr     error
	navErr      error
	navigated   []string
	scripts     []string
	scriptErr   error
	panicOn     string
	releases    int
}

func (s *fakeSession) Navigate(url string) error {
	s.navigated = append(s.navigated, url)
	return s.navErr
}

func (s *fakeSession) WaitForElement(xpath string, _ time.Duration) (browser.Element, error) {
	if s.panicOn != "" && xpath == s.panicOn {
		panic("fake session blew up")
	}
	if els, ok := s.elements[xpath]; ok && len(els) > 0 {
		els[0].session = s
		return els[0], nil
	}
	return nil, errors.New("element not found: " + xpath)
}

func (s *fakeSession) ElementsX(xpath string) ([]browser.Element, error) {
	els := s.elements[xpath]
	for _, el := range els {
		el.session = s
	}
	return toElements(els), nil
}

func (s *fakeSession) RunScript(js string) error {
	if s.scriptErr != nil {
		return s.scriptErr
	}
	s.scripts = append(s.scripts, js)
	return nil
}

func (s *fakeSession) HTML() (string, error) {
	return s.html, s.htmlErr
}

func (s *fakeSession) Release() {
	s.releases++
}

func (s *fakeSession) elementClicked() {
	if s.swapOnClick != nil {
		s.elements = s.swapOnClick
		s.swapOnClick = nil
	}
}

// fakeFactory hands out one prepared session.
type fakeFactory struct {
	sess *fakeSession
	err  error
}

func (f *fakeFactory) NewSession(context.Context) (browser.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sess, nil
}

// fakeStore records puts and optionally fails them.
type fakeStore struct {
	err  error
	puts []putCall
}

type putCall struct {
	bucket      string
	key         string
	body        string
	contentType string
}

func (f *fakeStore) Put(_ context.Context, bucket, key string, body []byte, contentType string) error {
	if f.err != nil {
		return f.err
	}
	f.puts = append(f.puts, putCall{bucket: bucket, key: key, body: string(body), contentType: contentType})
	return nil
}

// sessionWithRows prepares a session whose table rows come back through
// the first row selector.
func sessionWithRows(rows ...*fakeElement) *fakeSession {
	body := &fakeElement{}
	table := &fakeElement{}
	return &fakeSession{
		elements: map[string][]*fakeElement{
			bodyXPath:   {body},
			"//table":   {table},
			rowXPaths[0]: rows,
		},
	}
}

// quickNavigator returns a navigator with settle pauses removed.
func quickNavigator(baseURL string) *PageNavigator {
	n := NewPageNavigator(baseURL)
	n.SettleAfterClick = 0
	n.SettleAfterJump = 0
	return n
}
