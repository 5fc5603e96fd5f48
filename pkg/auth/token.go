// Package auth provides bearer-token sources for the API client.
package auth

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/ratedesk/errors"
	"github.com/grovetools/ratedesk/logging"
	"github.com/sirupsen/logrus"
)

// TokenSource supplies the bearer token attached to each request.
// An empty token means the request is sent unauthenticated.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a fixed token.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() (string, error) { return string(t), nil }

// EnvToken reads the token from an environment variable on every call.
type EnvToken string

// Token implements TokenSource.
func (e EnvToken) Token() (string, error) { return os.Getenv(string(e)), nil }

// FileToken reads a token from a file written by a login flow and keeps it
// cached until the file changes on disk.
type FileToken struct {
	path    string
	mu      sync.RWMutex
	token   string
	loaded  bool
	watcher *fsnotify.Watcher
	logger  *logrus.Entry
	done    chan struct{}
}

// NewFileToken creates a FileToken for path. The file does not have to exist yet.
func NewFileToken(path string) *FileToken {
	return &FileToken{
		path:   path,
		logger: logging.NewLogger("auth"),
	}
}

// Token implements TokenSource.
func (f *FileToken) Token() (string, error) {
	f.mu.RLock()
	if f.loaded {
		tok := f.token
		f.mu.RUnlock()
		return tok, nil
	}
	f.mu.RUnlock()
	return f.reload()
}

func (f *FileToken) reload() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			f.set("")
			return "", nil
		}
		return "", errors.Wrap(err, errors.ErrCodeUnauthorized, "failed to read token file").
			WithDetail("path", f.path)
	}
	tok := strings.TrimSpace(string(data))
	f.set(tok)
	return tok, nil
}

func (f *FileToken) set(tok string) {
	f.mu.Lock()
	f.token = tok
	f.loaded = true
	f.mu.Unlock()
}

func (f *FileToken) invalidate() {
	f.mu.Lock()
	f.loaded = false
	f.mu.Unlock()
}

// Watch invalidates the cached token whenever the token file is written,
// created, renamed or removed. It returns once the watcher is installed and
// stops when ctx is done or Close is called.
func (f *FileToken) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory: editors and login flows often replace the file.
	dir := filepath.Dir(f.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	f.mu.Lock()
	f.watcher = watcher
	f.done = make(chan struct{})
	done := f.done
	f.mu.Unlock()

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				watcher.Close()
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !sameFile(event.Name, f.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					f.logger.WithField("op", event.Op.String()).Debug("Token file changed")
					f.invalidate()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.logger.WithError(err).Warn("Token watcher error")
			}
		}
	}()
	return nil
}

// Close stops the watcher, if any, and waits for it to exit.
func (f *FileToken) Close() error {
	f.mu.Lock()
	w, done := f.watcher, f.done
	f.watcher = nil
	f.mu.Unlock()
	if w == nil {
		return nil
	}
	err := w.Close()
	<-done
	return err
}

func sameFile(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
