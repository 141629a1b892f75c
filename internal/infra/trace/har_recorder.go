package trace

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go_mock_console/utils"

	"github.com/google/martian/v3"
	"github.com/google/martian/v3/har"
	mlog "github.com/google/martian/v3/log"
	"github.com/google/martian/v3/mitm"
)

// Recorder is a local HTTP(S) proxy that keeps a HAR log of everything the
// browser sends through it. HTTPS is intercepted with a throwaway CA, so the
// browser must ignore certificate errors while it is attached.
type Recorder struct {
	proxy    *martian.Proxy
	logger   *har.Logger
	listener net.Listener
	done     chan struct{}

	closeOnce sync.Once
}

// RecorderOptions 代理录制选项
type RecorderOptions struct {
	// MITM enables HTTPS interception; without it CONNECT tunnels are
	// recorded but their contents are not.
	MITM bool
	// Addr is the listen address, 127.0.0.1:0 when empty.
	Addr string
}

func init() {
	mlog.SetLevel(mlog.Silent)
}

// StartRecorder starts the proxy and begins serving in the background.
func StartRecorder(opts RecorderOptions) (*Recorder, error) {
	addr := opts.Addr
	if addr == "" {
		addr = "127.0.0.1:0"
	}

	proxy := martian.NewProxy()
	logger := har.NewLogger()
	proxy.SetRequestModifier(logger)
	proxy.SetResponseModifier(logger)
	proxy.SetTimeout(15 * time.Second)

	if opts.MITM {
		ca, privateKey, err := mitm.NewAuthority("go_mock_console trace", "go_mock_console", 24*time.Hour)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace authority: %w", err)
		}
		mc, err := mitm.NewConfig(ca, privateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create mitm config: %w", err)
		}
		proxy.SetMITM(mc)
	}

	l, err := net.Listen("tcp", addr)
	if err != nil {
		proxy.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	r := &Recorder{
		proxy:    proxy,
		logger:   logger,
		listener: l,
		done:     make(chan struct{}),
	}

	go func() {
		defer close(r.done)
		if err := proxy.Serve(l); err != nil {
			utils.GetLogger().Debugf("trace proxy stopped: %v", err)
		}
	}()

	utils.GetLogger().Debugf("trace proxy listening on %s", l.Addr())
	return r, nil
}

// Addr is the host:port to configure as the browser proxy.
func (r *Recorder) Addr() string {
	return r.listener.Addr().String()
}

// URL is Addr with an http scheme.
func (r *Recorder) URL() string {
	return "http://" + r.Addr()
}

// Export returns the entries recorded so far.
func (r *Recorder) Export() *har.HAR {
	return r.logger.Export()
}

// Entries is the number of recorded request/response pairs.
func (r *Recorder) Entries() int {
	h := r.Export()
	if h == nil || h.Log == nil {
		return 0
	}
	return len(h.Log.Entries)
}

// WriteFile writes the HAR document to path, creating parent directories.
func (r *Recorder) WriteFile(path string) error {
	data, err := json.MarshalIndent(r.Export(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal har: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create trace directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write har: %w", err)
	}
	return nil
}

// Close stops the proxy once in-flight connections are done, so the
// browser should be closed first. It is safe to call more than once.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		r.listener.Close()
		r.proxy.Close()
		<-r.done
	})
}
