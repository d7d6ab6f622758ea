// Package filestore persists credentials as a JSON file in the user's home
// directory so a session survives across CLI invocations.
package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-consulta/credentials"
	"github.com/jrsteele09/go-consulta/users"
)

const (
	defaultDirName  = ".consulta"
	defaultFileName = "credentials.json"

	filePerm = 0600
	dirPerm  = 0755
)

var _ credentials.Repo = (*Store)(nil)

// record is the on-disk layout. The expiration slot is a decimal
// epoch-seconds string and is omitted entirely when the token's exp claim
// could not be decoded; older records written before the slot existed simply
// lack the key.
type record struct {
	Token     string          `json:"token,omitempty"`
	User      json.RawMessage `json:"user,omitempty"`
	ExpiresAt string          `json:"token-expiration,omitempty"`
}

// Store is a file-backed credentials.Repo.
type Store struct {
	path    string
	decoder credentials.ExpiryDecoder
	lock    sync.Mutex
}

// New creates a store writing to path. An empty path resolves to
// ~/.consulta/credentials.json.
func New(path string, decoder credentials.ExpiryDecoder) (*Store, error) {
	if decoder == nil {
		return nil, errors.New("[filestore.New] decoder is required")
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "[filestore.New] resolving home directory")
		}
		path = filepath.Join(home, defaultDirName, defaultFileName)
	}
	return &Store{path: path, decoder: decoder}, nil
}

// Save writes the token and user in a single file write so a reader never
// observes one without the other, then records the decoded expiration when
// one is available.
func (s *Store) Save(tok string, user *users.Info) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	userJSON, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "[Store.Save] serializing user")
	}

	rec := record{Token: tok, User: userJSON}
	if exp, ok := s.decoder.ExpiresAt(tok); ok {
		rec.ExpiresAt = strconv.FormatInt(exp.Unix(), 10)
	}

	return s.write(&rec)
}

// Read returns whichever slots are present. A missing file is an empty
// record, not an error.
func (s *Store) Read() (*credentials.Record, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &credentials.Record{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Store.Read] reading credentials file")
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "[Store.Read] parsing credentials file")
	}

	out := &credentials.Record{Token: rec.Token}
	if len(rec.User) > 0 {
		var u users.Info
		if err := json.Unmarshal(rec.User, &u); err == nil {
			out.User = &u
		}
	}
	if rec.ExpiresAt != "" {
		if secs, err := strconv.ParseInt(rec.ExpiresAt, 10, 64); err == nil {
			exp := time.Unix(secs, 0)
			out.ExpiresAt = &exp
		}
	}
	return out, nil
}

// Clear removes the credentials file. Clearing an absent file succeeds.
func (s *Store) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[Store.Clear] removing credentials file")
	}
	return nil
}

func (s *Store) write(rec *record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[Store.write] serializing record")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return errors.Wrap(err, "[Store.write] creating credentials directory")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		return errors.Wrap(err, "[Store.write] writing credentials file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "[Store.write] replacing credentials file")
	}
	return nil
}
