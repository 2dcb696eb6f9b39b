/*
Package token persists the bearer credential issued by the chat service.

The store holds exactly one credential in a single well-known file so that a
signed-in session survives client restarts. Expiry is never tracked locally;
an invalid credential is only discovered when the server rejects it.
*/
package token

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gchat/internal/pkg/errs"
	"gchat/internal/pkg/logx"
)

// Store is a file-backed slot for a single bearer credential.
// All mutations go through a mutex so a Save or Clear is never observable
// half-applied by a subsequent Read.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a Store persisting the credential at path.
// The parent directory is created lazily on the first Save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save persists the credential. The write is atomic: the token is written to
// a temporary file in the same directory and renamed into place.
// A failure is a storage-kind error; callers treat it as a degraded mode,
// keeping the session in memory only.
func (s *Store) Save(credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		logx.Error(err, "token store: failed to create state directory", "path", s.path)
		return errs.NewError(errs.ErrTokenStorage)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "token-*")
	if err != nil {
		logx.Error(err, "token store: failed to create temp file", "path", s.path)
		return errs.NewError(errs.ErrTokenStorage)
	}

	_, writeErr := tmp.WriteString(credential)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		os.Remove(tmp.Name())
		logx.Error(writeErr, "token store: failed to write credential", "path", s.path)
		return errs.NewError(errs.ErrTokenStorage)
	}

	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		logx.Warn("token store: failed to restrict credential file mode", "error", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		logx.Error(err, "token store: failed to move credential into place", "path", s.path)
		return errs.NewError(errs.ErrTokenStorage)
	}

	return nil
}

// Read returns the stored credential and whether one is present.
// An unreadable store reports absent: the caller proceeds unauthenticated
// rather than failing, matching the degraded-mode contract.
func (s *Store) Read() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logx.Warn("token store: credential file unreadable, proceeding without credential", "path", s.path, "error", err)
		}
		return "", false
	}

	credential := strings.TrimSpace(string(data))
	if credential == "" {
		return "", false
	}

	return credential, true
}

// Clear removes the stored credential. A missing file is a success: the
// post-condition is only that Read reports absent.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		logx.Error(err, "token store: failed to remove credential", "path", s.path)
		return errs.NewError(errs.ErrTokenStorage)
	}

	return nil
}
