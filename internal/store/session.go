package store

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Session is the ephemeral store: it lives in a per-session directory and
// is wiped by End. Nothing in it survives the session.
type Session struct {
	*Diskv
	id string
}

// DefaultSessionID identifies the invoking shell session by the parent
// process id, so repeated commands from one terminal share a session.
func DefaultSessionID() string {
	return "ppid-" + strconv.Itoa(os.Getppid())
}

// OpenSession returns the session store for id under dir. An empty dir
// uses $TMPDIR/quotes-sessions; an empty id uses DefaultSessionID.
func OpenSession(dir, id string) *Session {
	if strings.TrimSpace(dir) == "" {
		dir = filepath.Join(os.TempDir(), "quotes-sessions")
	}
	if strings.TrimSpace(id) == "" {
		id = DefaultSessionID()
	}
	return &Session{Diskv: NewDiskv(filepath.Join(dir, sanitize(id))), id: id}
}

func (s *Session) ID() string { return s.id }

// End clears everything held for the session.
func (s *Session) End() error {
	if err := s.d.EraseAll(); err != nil && !os.IsNotExist(err) {
		return &StorageError{Op: "end", Key: s.id, Err: err}
	}
	return nil
}

func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, id)
}
