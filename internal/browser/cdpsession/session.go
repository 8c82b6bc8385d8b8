// internal/browser/cdpsession/session.go

// Package cdpsession drives a real Chrome tab over the DevTools protocol
// and exposes it through the schemas.BrowserSession contract. One action is
// in flight per session at a time; only the highlight overlay runs off the
// action path.
package cdpsession

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
	"github.com/wheelhouse-ai/wheelhouse/internal/config"
)

// Session owns one browser tab and its allocator. It implements
// schemas.BrowserSession.
type Session struct {
	id     string
	logger *zap.Logger
	cfg    config.BrowserConfig

	allocCtx    context.Context
	allocCancel context.CancelFunc
	// tabCtx is the chromedp context all protocol commands execute on.
	tabCtx    context.Context
	tabCancel context.CancelFunc

	dom      *domFacade
	protocol *protocolChannel

	// elements maps interactive-element indexes handed to the agent at
	// capture time to live node handles. Rebuilt on capture, cleared on
	// navigation.
	elements map[int]schemas.NodeHandle

	// agentSize is the dimension of the last downscaled capture;
	// viewportSize tracks the real viewport.
	agentSize    schemas.Size
	viewportSize schemas.Size

	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

var _ schemas.BrowserSession = (*Session)(nil)

// New launches a browser and opens a fresh tab configured per cfg.
func New(parentCtx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Session, error) {
	sessionID := uuid.NewString()
	log := logger.Named("cdp_session").With(zap.String("session_id", sessionID))

	allocCtx, allocCancel := chromedp.NewExecAllocator(parentCtx, allocatorOptions(cfg)...)

	ctxOpts := []chromedp.ContextOption{
		chromedp.WithLogf(func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		}),
		chromedp.WithErrorf(func(format string, args ...any) {
			log.Error(fmt.Sprintf(format, args...))
		}),
	}
	if cfg.Debug {
		ctxOpts = append(ctxOpts, chromedp.WithDebugf(func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		}))
	}
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, ctxOpts...)

	s := &Session{
		id:          sessionID,
		logger:      log,
		cfg:         cfg,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		viewportSize: schemas.Size{
			Width:  int64(cfg.ViewportWidth),
			Height: int64(cfg.ViewportHeight),
		},
	}
	s.dom = newDOMFacade(s)
	s.protocol = &protocolChannel{session: s}

	// Boot the browser process and attach the tab.
	bootCtx, cancel := context.WithTimeout(tabCtx, cfg.NavigationTimeout)
	defer cancel()
	if err := chromedp.Run(bootCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	if cfg.DisableCache {
		if err := chromedp.Run(tabCtx, network.SetCacheDisabled(true)); err != nil {
			log.Warn("Could not disable browser cache.", zap.Error(err))
		}
	}

	log.Info("Browser session started.",
		zap.Bool("headless", cfg.Headless),
		zap.Int("viewport_w", cfg.ViewportWidth),
		zap.Int("viewport_h", cfg.ViewportHeight),
	)
	return s, nil
}

// allocatorOptions translates the browser configuration into exec
// allocator flags.
func allocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.WindowSize(cfg.ViewportWidth, cfg.ViewportHeight),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	if cfg.IgnoreTLSErrors {
		opts = append(opts, chromedp.Flag("ignore-certificate-errors", true))
	}
	for _, arg := range cfg.Args {
		name, value := parseChromeArg(arg)
		if name == "" {
			continue
		}
		if value == "" {
			opts = append(opts, chromedp.Flag(name, true))
		} else {
			opts = append(opts, chromedp.Flag(name, value))
		}
	}
	return opts
}

// parseChromeArg splits a raw "--name=value" flag into its parts.
func parseChromeArg(arg string) (name, value string) {
	arg = strings.TrimLeft(arg, "-")
	name, value, _ = strings.Cut(arg, "=")
	return name, value
}

// ID returns the unique ID of the session.
func (s *Session) ID() string { return s.id }

// Protocol exposes the raw protocol channel.
func (s *Session) Protocol() schemas.ProtocolSession { return s.protocol }

// DOM exposes the node-level read facade.
func (s *Session) DOM() schemas.DOM { return s.dom }

// FrameSizes returns the agent frame of the last capture and the real
// viewport.
func (s *Session) FrameSizes() (agent schemas.Size, viewport schemas.Size) {
	return s.agentSize, s.viewportSize
}

// CurrentURL returns the tab's current location.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	runCtx, cancel := s.runCtx(ctx, s.cfg.ActionTimeout)
	defer cancel()

	var url string
	if err := chromedp.Run(runCtx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to get current URL: %w", err)
	}
	return url, nil
}

// Close tears down the tab, the browser process and any in-flight overlay
// work. Safe to call more than once.
func (s *Session) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.logger.Info("Closing browser session.")
		s.closeErr = chromedp.Cancel(s.tabCtx)
		s.tabCancel()
		s.allocCancel()
		s.wg.Wait()
	})
	return s.closeErr
}

// runCtx derives a command context from the tab context, bounded by d and
// released early when the caller's ctx is done.
func (s *Session) runCtx(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithTimeout(s.tabCtx, d)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

// callerErr prefers the caller context's own termination error over the
// derived command error, so deadline and cancellation classification stays
// truthful at the execution boundary.
func callerErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
