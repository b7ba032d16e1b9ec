package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/angelmondragon/delivery-admin/pkg/config"
)

type cookieRecord struct {
	Name    string     `json:"name"`
	Value   string     `json:"value"`
	Expires *time.Time `json:"expires,omitempty"`
}

type fileRecord struct {
	Cookie *cookieRecord `json:"cookie,omitempty"`
	User   *User         `json:"user,omitempty"`
}

// FileStore writes the session as a JSON document readable only by the owner.
type FileStore struct {
	path       string
	cookieName string
}

func NewFileStore(path, cookieName string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("session path is required")
	}
	if cookieName == "" {
		cookieName = config.DefaultCookieName
	}
	return &FileStore{path: path, cookieName: cookieName}, nil
}

func (f *FileStore) Path() string {
	return f.path
}

// Load returns an empty record when the file is missing or names another cookie.
func (f *FileStore) Load(context.Context) (Record, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("read session file: %w", err)
	}

	var doc fileRecord
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Record{}, fmt.Errorf("decode session file %s: %w", f.path, err)
	}

	rec := Record{User: doc.User}
	if doc.Cookie != nil && doc.Cookie.Name == f.cookieName {
		rec.Token = doc.Cookie.Value
	}
	return rec, nil
}

func (f *FileStore) Save(_ context.Context, rec Record) error {
	doc := fileRecord{User: rec.User}
	if rec.Token != "" {
		doc.Cookie = &cookieRecord{Name: f.cookieName, Value: rec.Token}
		if exp, ok := tokenExpiry(rec.Token); ok {
			doc.Cookie.Expires = &exp
		}
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("create session temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (f *FileStore) Clear(context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
