// Package cdp types into a live Chrome tab over the DevTools protocol. Keys
// go out as raw keyDown/char/keyUp events, so pages that watch keystroke
// timing see the same cadence the driver scheduled. The package owns the
// browser lifecycle: Launch starts (or attaches to) a Chrome instance,
// navigates, focuses the target field, and hands back an actuator bound to
// that tab.
package cdp

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Config controls the browser session an actuator types into.
type Config struct {
	// URL is loaded before typing starts. Empty skips navigation, which is
	// useful when attaching to a prepared tab.
	URL string

	// Selector locates the element to focus. Empty leaves focus where the
	// page put it.
	Selector string

	// Headless runs Chrome without a window.
	Headless bool

	// UserAgent overrides the browser's user agent when non-empty.
	UserAgent string

	// MaxEventsPerSec caps protocol dispatches. The driver's own pacing
	// stays well under this; the cap only matters when a corrupt profile
	// asks for inhuman speed.
	MaxEventsPerSec float64

	// DriftAmplitude is the idle mouse drift radius in pixels. Zero
	// disables drift.
	DriftAmplitude float64

	// NavigationTimeout bounds the initial navigate plus focus.
	NavigationTimeout time.Duration
}

func (c *Config) normalize() {
	if c.MaxEventsPerSec <= 0 {
		c.MaxEventsPerSec = 120
	}
	if c.DriftAmplitude < 0 {
		c.DriftAmplitude = 0
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = 60 * time.Second
	}
}

// Session is a running browser with one tab prepared for typing.
type Session struct {
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	act         *Actuator
	log         *zap.Logger
}

// Launch starts Chrome, opens a tab, navigates to cfg.URL and focuses
// cfg.Selector. The returned session must be closed. The tab's lifetime is
// tied to ctx, so canceling ctx tears the browser down as well.
func Launch(ctx context.Context, cfg Config, logger *zap.Logger) (*Session, error) {
	cfg.normalize()
	log := logger.Named("cdp")

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	}
	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
		log:         log,
	}

	// Create the target now so a missing binary or bad URL surfaces here
	// instead of mid-session.
	prepCtx, prepCancel := context.WithTimeout(tabCtx, cfg.NavigationTimeout)
	defer prepCancel()

	actions := []chromedp.Action{}
	if cfg.URL != "" {
		actions = append(actions, chromedp.Navigate(cfg.URL))
	}
	if cfg.Selector != "" {
		actions = append(actions,
			chromedp.WaitVisible(cfg.Selector, chromedp.ByQuery),
			chromedp.Focus(cfg.Selector, chromedp.ByQuery),
		)
	}
	if err := chromedp.Run(prepCtx, actions...); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to prepare browser tab: %w", err)
	}

	log.Info("Browser tab ready",
		zap.String("url", cfg.URL),
		zap.String("selector", cfg.Selector),
		zap.Bool("headless", cfg.Headless))

	s.act = newActuator(s.runActions, cfg, log)
	return s, nil
}

// Actuator returns the typing actuator bound to this session's tab.
func (s *Session) Actuator() *Actuator {
	return s.act
}

// runActions executes chromedp actions against the session tab with a
// per-dispatch timeout so a wedged renderer cannot hang the driver.
func (s *Session) runActions(opCtx context.Context, actions ...chromedp.Action) error {
	if err := opCtx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(s.tabCtx, 10*time.Second)
	defer cancel()
	if err := chromedp.Run(runCtx, actions...); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("browser dispatch timed out: %w", runCtx.Err())
		}
		return err
	}
	return nil
}

// Close shuts the tab and the browser down. Safe to call more than once.
func (s *Session) Close() {
	// Graceful browser shutdown first so Chrome's profile directory is not
	// left locked, then the hard cancels.
	_ = chromedp.Cancel(s.tabCtx)
	s.tabCancel()
	s.allocCancel()
}
