package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

const (
	valueSuffix    = ".json"
	checksumSuffix = ".checksum"
	lockSuffix     = ".lock"
	tempSuffix     = ".tmp"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9_.-]*$`)

// ErrWatchUnsupported is returned by Watch when the backend is not on the OS filesystem.
var ErrWatchUnsupported = errors.New("watch requires the OS filesystem")

// FileBackend stores one file per key in a directory.
// Writes go to a temp file that is renamed into place, and every value has a
// SHA-256 checksum sidecar that is verified on read.
// On the OS filesystem, access to each key is serialized across processes with flock.
type FileBackend struct {
	fs     afero.Fs
	dir    string
	osFS   bool
	mu     sync.Mutex
	locks  map[string]*flock.Flock
	last   map[string]string // checksum of the last value this backend wrote, per key
	watch  *fsnotify.Watcher
	closed bool
}

// NewFileBackend creates a backend rooted at dir on the given filesystem.
// Use afero.NewMemMapFs() for tests.
func NewFileBackend(fsys afero.Fs, dir string) (*FileBackend, error) {
	if dir == "" {
		return nil, fmt.Errorf("file backend: data directory is empty")
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	_, osFS := fsys.(*afero.OsFs)
	return &FileBackend{
		fs:    fsys,
		dir:   dir,
		osFS:  osFS,
		locks: make(map[string]*flock.Flock),
		last:  make(map[string]string),
	}, nil
}

// NewOsFileBackend creates a backend on the real filesystem, with file locking and Watch support.
func NewOsFileBackend(dir string) (*FileBackend, error) {
	return NewFileBackend(afero.NewOsFs(), dir)
}

// Dir returns the data directory.
func (b *FileBackend) Dir() string {
	return b.dir
}

// Path returns the file a key's value is stored in.
func (b *FileBackend) Path(key string) string {
	return filepath.Join(b.dir, key+valueSuffix)
}

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (b *FileBackend) GetItem(key string) (string, bool, error) {
	if err := b.check(key); err != nil {
		return "", false, err
	}
	unlock, err := b.lock(key, false)
	if err != nil {
		return "", false, err
	}
	defer unlock()

	valuePath := b.Path(key)
	data, err := afero.ReadFile(b.fs, valuePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read data file %s: %w", valuePath, err)
	}

	checksumPath := valuePath + checksumSuffix
	expected, err := afero.ReadFile(b.fs, checksumPath)
	switch {
	case err == nil:
		if got := calculateChecksum(data); got != strings.TrimSpace(string(expected)) {
			return "", false, fmt.Errorf("%w for %s: expected %s, got %s", ErrChecksumMismatch, valuePath, strings.TrimSpace(string(expected)), got)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Values written by hand have no sidecar; the next write creates one.
	default:
		return "", false, fmt.Errorf("error checking checksum file %s: %w", checksumPath, err)
	}

	return string(data), true, nil
}

func (b *FileBackend) SetItem(key, value string) error {
	if err := b.check(key); err != nil {
		return err
	}
	unlock, err := b.lock(key, true)
	if err != nil {
		return err
	}
	defer unlock()

	data := []byte(value)
	sum := calculateChecksum(data)

	valuePath := b.Path(key)
	checksumPath := valuePath + checksumSuffix
	tempValuePath := valuePath + tempSuffix
	tempChecksumPath := checksumPath + tempSuffix
	defer func() { _ = b.fs.Remove(tempValuePath) }()
	defer func() { _ = b.fs.Remove(tempChecksumPath) }()

	if err := afero.WriteFile(b.fs, tempValuePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary data file %s: %w", tempValuePath, err)
	}
	if err := afero.WriteFile(b.fs, tempChecksumPath, []byte(sum), 0o644); err != nil {
		return fmt.Errorf("failed to write temporary checksum file %s: %w", tempChecksumPath, err)
	}

	b.mu.Lock()
	b.last[key] = sum
	b.mu.Unlock()

	if err := b.fs.Rename(tempValuePath, valuePath); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", tempValuePath, valuePath, err)
	}
	if err := b.fs.Rename(tempChecksumPath, checksumPath); err != nil {
		return fmt.Errorf("data file %s updated but checksum file %s was not: %w", valuePath, checksumPath, err)
	}
	return nil
}

func (b *FileBackend) RemoveItem(key string) error {
	if err := b.check(key); err != nil {
		return err
	}
	unlock, err := b.lock(key, true)
	if err != nil {
		return err
	}
	defer unlock()

	valuePath := b.Path(key)
	for _, p := range []string{valuePath, valuePath + checksumSuffix} {
		if err := b.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	b.mu.Lock()
	delete(b.last, key)
	b.mu.Unlock()
	return nil
}

// Watch signals on the returned channel whenever the key's file is changed
// by someone other than this backend. The channel is closed by Close.
func (b *FileBackend) Watch(key string) (<-chan struct{}, error) {
	if err := b.check(key); err != nil {
		return nil, err
	}
	if !b.osFS {
		return nil, ErrWatchUnsupported
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.watch != nil {
		return nil, fmt.Errorf("file backend: already watching")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(b.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", b.dir, err)
	}
	b.watch = watcher

	changes := make(chan struct{}, 1)
	go b.watchLoop(watcher, key, changes)
	return changes, nil
}

func (b *FileBackend) watchLoop(watcher *fsnotify.Watcher, key string, changes chan<- struct{}) {
	defer close(changes)
	target := filepath.Base(b.Path(key))
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
				!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if b.isOwnWrite(key) {
				continue
			}
			select {
			case changes <- struct{}{}:
			default:
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("file watcher error", "dir", b.dir, "error", err)
		}
	}
}

// isOwnWrite reports whether the key's current file content is what this backend last wrote.
func (b *FileBackend) isOwnWrite(key string) bool {
	data, err := afero.ReadFile(b.fs, b.Path(key))
	if err != nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last[key] == calculateChecksum(data)
}

// Close stops any watcher and releases file locks.
func (b *FileBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	var errs []error
	if b.watch != nil {
		errs = append(errs, b.watch.Close())
	}
	for _, l := range b.locks {
		errs = append(errs, l.Unlock())
	}
	return errors.Join(errs...)
}

func (b *FileBackend) check(key string) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if !validKey.MatchString(key) {
		return fmt.Errorf("file backend: invalid key %q", key)
	}
	return nil
}

// lock takes the per-key flock on the OS filesystem and is a no-op elsewhere.
func (b *FileBackend) lock(key string, exclusive bool) (func(), error) {
	if !b.osFS {
		return func() {}, nil
	}
	b.mu.Lock()
	l, ok := b.locks[key]
	if !ok {
		l = flock.New(filepath.Join(b.dir, key+lockSuffix))
		b.locks[key] = l
	}
	b.mu.Unlock()

	var err error
	if exclusive {
		err = l.Lock()
	} else {
		err = l.RLock()
	}
	if err != nil {
		return nil, fmt.Errorf("could not lock %s: %w", l.Path(), err)
	}
	return func() { _ = l.Unlock() }, nil
}

var _ Backend = (*FileBackend)(nil)
