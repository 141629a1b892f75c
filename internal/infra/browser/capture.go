package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go_mock_console/utils"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

const (
	screenshotFile = "screenshot.png"
	traceFile      = "trace.har"
	videoDir       = "video"
)

// listenPageErrors logs console errors and uncaught exceptions until ctx is done.
func listenPageErrors(ctx context.Context, page *rod.Page) {
	log := utils.GetLogger()
	wait := page.Context(ctx).EachEvent(
		func(e *proto.RuntimeConsoleAPICalled) {
			if e.Type != proto.RuntimeConsoleAPICalledTypeError {
				return
			}
			parts := make([]string, 0, len(e.Args))
			for _, arg := range e.Args {
				if arg.Description != "" {
					parts = append(parts, arg.Description)
				} else {
					parts = append(parts, arg.Value.String())
				}
			}
			log.Warnf("Page error: %s", strings.Join(parts, " "))
		},
		func(e *proto.RuntimeExceptionThrown) {
			if e.ExceptionDetails == nil {
				return
			}
			msg := e.ExceptionDetails.Text
			if e.ExceptionDetails.Exception != nil && e.ExceptionDetails.Exception.Description != "" {
				msg = e.ExceptionDetails.Exception.Description
			}
			log.Warnf("Page exception: %s", msg)
		},
	)
	go wait()
}

// screencast writes CDP screencast frames as numbered JPEGs.
type screencast struct {
	dir    string
	mu     sync.Mutex
	frames int
	err    error
}

func startScreencast(ctx context.Context, page *rod.Page, dir string) (*screencast, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create video directory: %w", err)
	}
	sc := &screencast{dir: dir}

	wait := page.Context(ctx).EachEvent(func(e *proto.PageScreencastFrame) {
		sc.write(e.Data)
		_ = proto.PageScreencastFrameAck{SessionID: e.SessionID}.Call(page)
	})
	go wait()

	quality := 60
	err := proto.PageStartScreencast{
		Format:  proto.PageStartScreencastFormatJpeg,
		Quality: &quality,
	}.Call(page)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to start screencast: %w", err)
	}
	return sc, nil
}

func (s *screencast) write(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames++
	path := filepath.Join(s.dir, fmt.Sprintf("frame-%05d.jpg", s.frames))
	if err := os.WriteFile(path, data, 0644); err != nil && s.err == nil {
		s.err = err
	}
}

// Frames is the number of frames written so far.
func (s *screencast) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

func (s *screencast) stop(page *rod.Page) error {
	_ = proto.PageStopScreencast{}.Call(page)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// screenshot captures the full page as PNG.
func screenshot(page *rod.Page, path string) error {
	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write screenshot: %w", err)
	}
	return nil
}
