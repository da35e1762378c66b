// Package i18n serves the translation bundles consumed by both the public
// viewer and the admin console. Bundles live on disk as
// <dir>/<locale>/<namespace>.json and are cached in memory; an fsnotify
// watcher invalidates the cache when a translator edits a file, so updated
// strings go live without a restart.
package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/voyagecms/backend/internal/domain"
)

// DefaultLocale is served when a requested locale is not configured.
const DefaultLocale = "zh-TW"

// SupportedLocales lists the locales bundles may exist for.
var SupportedLocales = []string{"zh-TW", "en"}

// Store caches translation bundles loaded from a directory tree.
type Store struct {
	dir string

	mu    sync.RWMutex
	cache map[string]json.RawMessage // "<locale>/<namespace>" → bundle
}

// NewStore constructs a Store reading bundles from dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, cache: map[string]json.RawMessage{}}
}

// Bundle returns the raw JSON bundle for locale/namespace. An unsupported
// locale falls back to DefaultLocale; a namespace with no file reports
// domain.ErrNotFound. Namespace is restricted to a simple name — path
// separators are rejected so callers cannot escape the bundle directory.
func (s *Store) Bundle(locale, namespace string) (json.RawMessage, error) {
	if !supported(locale) {
		locale = DefaultLocale
	}
	if namespace == "" || strings.ContainsAny(namespace, `/\.`) {
		return nil, fmt.Errorf("i18n.Store.Bundle: namespace %q: %w", namespace, domain.ErrNotFound)
	}

	key := locale + "/" + namespace

	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	data, err := os.ReadFile(filepath.Join(s.dir, locale, namespace+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("i18n.Store.Bundle: %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("i18n.Store.Bundle: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("i18n.Store.Bundle: %s: malformed bundle", key)
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()
	return data, nil
}

// Watch invalidates cached bundles when their files change on disk and runs
// until ctx is cancelled. Each locale subdirectory is watched; events for
// non-JSON files are ignored.
func (s *Store) Watch(ctx context.Context, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("i18n.Store.Watch: %w", err)
	}
	defer w.Close()

	for _, locale := range SupportedLocales {
		dir := filepath.Join(s.dir, locale)
		if _, err := os.Stat(dir); err != nil {
			continue // locale not provisioned; nothing to watch
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("i18n.Store.Watch: add %s: %w", dir, err)
		}
	}

	logger.Info("i18n: watching bundles", slog.String("dir", s.dir))

	for {
		select {
		case <-ctx.Done():
			logger.Info("i18n: watcher stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			locale := filepath.Base(filepath.Dir(ev.Name))
			namespace := strings.TrimSuffix(filepath.Base(ev.Name), ".json")
			s.invalidate(locale + "/" + namespace)
			logger.Debug("i18n: bundle invalidated",
				slog.String("locale", locale),
				slog.String("namespace", namespace))

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("i18n: watcher error", slog.String("error", err.Error()))
		}
	}
}

func (s *Store) invalidate(key string) {
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()
}

func supported(locale string) bool {
	for _, l := range SupportedLocales {
		if l == locale {
			return true
		}
	}
	return false
}
