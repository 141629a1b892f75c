package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go_mock_console/internal/domain/iface"
	configs "go_mock_console/internal/infra/config"
	"go_mock_console/internal/infra/trace"
	"go_mock_console/utils"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// SessionFactory launches one Chromium per session.
type SessionFactory struct {
	browser  configs.BrowserConfig
	capture  configs.CaptureConfig
	timeouts configs.TimeoutConfig
}

var _ iface.SessionFactory = (*SessionFactory)(nil)

func NewSessionFactory(c *configs.RunConfig) iface.SessionFactory {
	return &SessionFactory{
		browser:  c.Browser,
		capture:  c.Capture,
		timeouts: c.Timeouts,
	}
}

// RodSession 一次尝试对应的浏览器会话
type RodSession struct {
	launcher *launcher.Launcher
	launched bool
	browser  *rod.Browser
	page     *RodPage
	recorder *trace.Recorder
	video    *screencast
	capture  configs.CaptureConfig
	dir      string

	stopEvents context.CancelFunc
}

var _ iface.ConsoleSession = (*RodSession)(nil)

// NewSession starts the trace proxy (when traces are recorded), launches the
// browser through it and opens a page with the configured viewport.
func (f *SessionFactory) NewSession(ctx context.Context, artifactDir string) (iface.ConsoleSession, error) {
	log := utils.GetLogger()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(artifactDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	s := &RodSession{capture: f.capture, dir: artifactDir}

	// 浏览器生命周期由 Close 管理，不跟随单次尝试的 ctx
	l := launcher.New().Headless(f.browser.Headless)
	if f.browser.Bin != "" {
		l = l.Bin(f.browser.Bin)
	}
	if f.capture.Trace.Active() {
		rec, err := trace.StartRecorder(trace.RecorderOptions{MITM: true})
		if err != nil {
			return nil, err
		}
		s.recorder = rec
		l = l.Proxy(rec.Addr())
	}
	s.launcher = l

	controlURL, err := l.Launch()
	if err != nil {
		s.release()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	s.launched = true

	b := rod.New().ControlURL(controlURL)
	if f.browser.SlowMotion > 0 {
		b = b.SlowMotion(f.browser.SlowMotion)
	}
	if err := b.Connect(); err != nil {
		s.release()
		return nil, fmt.Errorf("failed to connect browser: %w", err)
	}
	s.browser = b

	if s.recorder != nil {
		if err := b.IgnoreCertErrors(true); err != nil {
			s.release()
			return nil, fmt.Errorf("failed to trust trace proxy: %w", err)
		}
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		s.release()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             f.browser.Viewport.Width,
		Height:            f.browser.Viewport.Height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		s.release()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}
	s.page = NewRodPage(page, f.timeouts)

	eventCtx, cancel := context.WithCancel(context.Background())
	s.stopEvents = cancel
	listenPageErrors(eventCtx, page)

	if f.capture.Video.Active() {
		sc, err := startScreencast(eventCtx, page, filepath.Join(artifactDir, videoDir))
		if err != nil {
			log.Warnf("video disabled: %v", err)
		} else {
			s.video = sc
		}
	}

	log.Debugf("browser session ready, artifacts in %s", artifactDir)
	return s, nil
}

func (s *RodSession) Page() iface.ConsolePage {
	return s.page
}

// Close stops capture, writes the artifacts the policies keep for the given
// outcome and shuts the browser and trace proxy down.
func (s *RodSession) Close(passed bool) ([]string, error) {
	var (
		kept []string
		errs []error
	)

	if s.page != nil {
		raw := s.page.Raw()
		if s.video != nil {
			if err := s.video.stop(raw); err != nil {
				errs = append(errs, err)
			}
		}
		if s.capture.Screenshot.Keep(passed) {
			path := filepath.Join(s.dir, screenshotFile)
			if err := screenshot(raw, path); err != nil {
				errs = append(errs, err)
			} else {
				kept = append(kept, path)
			}
		}
	}
	if s.stopEvents != nil {
		s.stopEvents()
	}

	if s.video != nil {
		dir := filepath.Join(s.dir, videoDir)
		if s.capture.Video.Keep(passed) && s.video.Frames() > 0 {
			kept = append(kept, dir)
		} else if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, err)
		}
	}

	// 先关浏览器再关代理，代理会等待连接结束
	recorder := s.recorder
	s.recorder = nil
	s.release()

	if recorder != nil {
		if s.capture.Trace.Keep(passed) {
			path := filepath.Join(s.dir, traceFile)
			if err := recorder.WriteFile(path); err != nil {
				errs = append(errs, err)
			} else {
				kept = append(kept, path)
			}
		}
		recorder.Close()
	}

	if len(kept) == 0 {
		// 目录为空时删除
		_ = os.Remove(s.dir)
	}
	return kept, errors.Join(errs...)
}

// release closes whatever was started so far.
func (s *RodSession) release() {
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			utils.GetLogger().Debugf("browser close: %v", err)
		}
		s.browser = nil
	}
	if s.launcher != nil && s.launched {
		s.launcher.Kill()
		s.launcher.Cleanup()
	}
	s.launcher = nil
	if s.recorder != nil {
		s.recorder.Close()
		s.recorder = nil
	}
}
