package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Store persists sessions keyed by team name.
type Store interface {
	Load(ctx context.Context, team string) (*Game, error)
	Save(ctx context.Context, g *Game) error
	Delete(ctx context.Context, team string) error
}

// FileStore keeps one JSON file per team in Dir.
type FileStore struct {
	Dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (f *FileStore) path(team string) string {
	return filepath.Join(f.Dir, slug(team)+".json")
}

// Load reads the team's session. Returns ErrNotFound if the file doesn't exist.
func (f *FileStore) Load(_ context.Context, team string) (*Game, error) {
	data, err := os.ReadFile(f.path(team))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var g Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &g, nil
}

// Save writes the session to a temp file and renames it into place.
func (f *FileStore) Save(_ context.Context, g *Game) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	path := f.path(g.Team)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

// Delete removes the team's session file. Missing files are not an error.
func (f *FileStore) Delete(_ context.Context, team string) error {
	if err := os.Remove(f.path(team)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// slug maps a team name to a safe key: lower-case letters and digits, '-' elsewhere.
func slug(team string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(team)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "team"
	}
	return s
}
