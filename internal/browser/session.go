// Package browser backs the lint and render capabilities with a headless
// Chrome session driven over the DevTools protocol. The session loads a
// local HTML harness that bundles the Strudel runtime and exposes
// lintStrudel/renderStrudel entry points; pattern code never runs in the
// orchestra process itself.
package browser

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/strudel-tools/orchestra/internal/orchestrator"
)

var _ orchestrator.LintSession = (*Session)(nil)

// Session is a single headless-browser automation context. It is not safe
// for concurrent use; callers issue lint/render calls one at a time.
type Session struct {
	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// NewSession launches headless Chrome, loads the harness page at
// templatePath, and waits for the Strudel runtime to signal readiness.
// Any failure here is fatal to the whole batch: there is no per-track
// recovery from a browser that cannot start.
func NewSession(ctx context.Context, templatePath string) (*Session, error) {
	abs, err := filepath.Abs(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve template path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("harness template missing at %s", abs)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("autoplay-policy", "no-user-gesture-required"),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)

	pageURL := url.URL{Scheme: "file", Path: abs}
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL.String()),
		chromedp.Poll("window.strudelReady === true", nil),
	)
	if err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser session (is Chrome or Chromium installed?): %w", err)
	}

	return &Session{ctx: browserCtx, cancelCtx: cancelCtx, cancelAlloc: cancelAlloc}, nil
}

// Lint evaluates one pattern body inside the harness and reports pass or
// fail. Implements orchestrator.LintSession.
func (s *Session) Lint(ctx context.Context, code string) (orchestrator.LintResult, error) {
	if err := ctx.Err(); err != nil {
		return orchestrator.LintResult{}, err
	}

	var payload struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	expr := fmt.Sprintf("Promise.resolve(lintStrudel(%s))", jsString(code))
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(expr, &payload, awaitPromise)); err != nil {
		return orchestrator.LintResult{}, fmt.Errorf("lint evaluation failed: %w", err)
	}
	if payload.OK {
		return orchestrator.LintResult{OK: true}, nil
	}
	message := payload.Error
	if message == "" {
		message = "unknown lint error"
	}
	return orchestrator.LintResult{OK: false, Message: message}, nil
}

// Render bounces one pattern body to audio and returns the captured
// bytes (webm).
func (s *Session) Render(ctx context.Context, code string, durationMs, warmupMs int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var payload struct {
		Base64 string `json:"base64"`
	}
	expr := fmt.Sprintf("renderStrudel(%s, { durationMs: %d, warmupMs: %d })", jsString(code), durationMs, warmupMs)
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(expr, &payload, awaitPromise)); err != nil {
		return nil, fmt.Errorf("render evaluation failed: %w", err)
	}
	audio, err := base64.StdEncoding.DecodeString(payload.Base64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode rendered audio: %w", err)
	}
	return audio, nil
}

// Close tears down the browser and its allocator.
func (s *Session) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancelCtx()
	s.cancelAlloc()
	return err
}

func awaitPromise(p *cdpruntime.EvaluateParams) *cdpruntime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// jsString embeds a Go string as a JS string literal.
func jsString(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}
