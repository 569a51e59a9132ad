package browser

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/finwatch/ratecrawl/config"
	"github.com/finwatch/ratecrawl/models"
)

// chromeBinPaths are probed in order when no binary is configured. These
// cover the usual layer/container install locations.
var chromeBinPaths = []string{
	"/opt/chrome/chrome",
	"/opt/chrome/headless-chromium",
	"/opt/chrome-linux/chrome",
	"/opt/headless-chromium",
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/usr/bin/google-chrome",
}

// Launcher is the production session factory. Each NewSession call launches
// its own browser process, so sessions are never shared or pooled.
type Launcher struct {
	cfg config.BrowserConfig
}

// NewLauncher probes for a usable browser binary and returns the factory.
func NewLauncher(cfg config.BrowserConfig) *Launcher {
	if cfg.Bin == "" {
		cfg.Bin = probeBinary()
	}
	if cfg.Bin != "" {
		slog.Info("browser binary selected", "bin", cfg.Bin)
	} else {
		slog.Warn("no browser binary found, relying on rod auto-download")
	}
	return &Launcher{cfg: cfg}
}

// probeBinary returns the first existing candidate path, or "".
func probeBinary() string {
	for _, path := range chromeBinPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// NewSession launches a headless browser and opens one page. The caller
// must Release the session on every exit path.
func (f *Launcher) NewSession(ctx context.Context) (Session, error) {
	l := launcher.New().
		Headless(f.cfg.Headless).
		NoSandbox(f.cfg.NoSandbox)

	if f.cfg.Bin != "" {
		l = l.Bin(f.cfg.Bin)
	}
	if f.cfg.Proxy != "" {
		l = l.Proxy(f.cfg.Proxy)
	}

	l.Set(flags.Flag("disable-gpu"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-application-cache"))
	l.Set(flags.Flag("hide-scrollbars"))
	l.Set(flags.Flag("ignore-certificate-errors"))
	l.Set(flags.Flag("window-size"), "1920,1080")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewCrawlError(models.ErrCodeSessionSetup, "failed to launch browser", err)
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, models.NewCrawlError(models.ErrCodeSessionSetup, "failed to connect to browser", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		l.Kill()
		return nil, models.NewCrawlError(models.ErrCodeSessionSetup, "failed to open page", err)
	}

	if f.cfg.Stealth {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
		}
	}

	if f.cfg.UserAgent != "" {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: proto.NetworkHeaders{"User-Agent": gson.New(f.cfg.UserAgent)},
		}.Call(page)
	}

	slog.Info("browser session created", "controlURL", controlURL)
	return &rodSession{launcher: l, browser: b, page: page}, nil
}

// rodSession adapts one rod page to the Session capability.
type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	release  sync.Once
}

func (s *rodSession) Navigate(url string) error {
	if err := s.page.Navigate(url); err != nil {
		return err
	}
	// Best effort: give async re-renders a chance to converge. Absence of
	// stability is not a navigation failure.
	if err := s.page.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM", "error", err)
	}
	return nil
}

func (s *rodSession) WaitForElement(xpath string, timeout time.Duration) (Element, error) {
	el, err := s.page.Timeout(timeout).ElementX(xpath)
	if err != nil {
		return nil, err
	}
	return &rodElement{el: el}, nil
}

func (s *rodSession) ElementsX(xpath string) ([]Element, error) {
	els, err := s.page.ElementsX(xpath)
	if err != nil {
		return nil, err
	}
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = &rodElement{el: el}
	}
	return out, nil
}

func (s *rodSession) RunScript(js string) error {
	_, err := s.page.Eval(js)
	return err
}

func (s *rodSession) HTML() (string, error) {
	return s.page.HTML()
}

// Release closes the page and kills the browser process. Idempotent:
// subsequent calls are no-ops.
func (s *rodSession) Release() {
	s.release.Do(func() {
		if err := s.page.Close(); err != nil {
			slog.Debug("page close failed", "error", err)
		}
		if err := s.browser.Close(); err != nil {
			slog.Debug("browser close failed", "error", err)
		}
		s.launcher.Kill()
		s.launcher.Cleanup()
		slog.Info("browser session released")
	})
}

// rodElement adapts a rod element handle.
type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Text() (string, error) {
	return e.el.Text()
}

func (e *rodElement) Elements(selector string) ([]Element, error) {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = &rodElement{el: el}
	}
	return out, nil
}

func (e *rodElement) ScriptClick() error {
	_, err := e.el.Eval(`() => this.click()`)
	return err
}
