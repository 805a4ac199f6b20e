package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"opsbot/internal/core/domain"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var unsafeKey = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Persister stores JSON documents, one file per key, under a directory.
type Persister struct {
	fs  afero.Fs
	dir string

	mu      sync.Mutex
	started bool
}

func NewPersister(fs afero.Fs, dir string) *Persister {
	return &Persister{fs: fs, dir: dir}
}

// Start creates the directory. Existing documents are kept.
func (p *Persister) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return domain.ErrPersisterStarted
	}

	err := p.fs.MkdirAll(p.dir, 0o750)
	if err != nil {
		err = fmt.Errorf("error creating persistence directory %w", err)
		log.Error().Err(err).Str("path", p.dir).Send()
		return err
	}

	p.started = true
	log.Debug().Str("path", p.dir).Msg("persistence started")

	return nil
}

func (p *Persister) path(key string) string {
	return filepath.Join(p.dir, unsafeKey.ReplaceAllString(key, "_")+".json")
}

// Save writes to a temp file first and renames it over the old document.
func (p *Persister) Save(key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return domain.ErrPersisterNotStarted
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding %s %w", key, err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return err
	}

	tmp := filepath.Join(p.dir, fmt.Sprintf(".%s.tmp", id.String()))

	err = afero.WriteFile(p.fs, tmp, data, 0o640)
	if err != nil {
		err = fmt.Errorf("error writing temp file %w", err)
		log.Error().Err(err).Str("key", key).Send()
		return err
	}

	err = p.fs.Rename(tmp, p.path(key))
	if err != nil {
		p.removeTempFile(tmp)
		err = fmt.Errorf("error replacing %s %w", key, err)
		log.Error().Err(err).Str("key", key).Send()
		return err
	}

	log.Debug().Str("key", key).Int("bytes", len(data)).Msg("saved")

	return nil
}

// Recover decodes the document stored under key into v. A missing document leaves v as is.
func (p *Persister) Recover(key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return domain.ErrPersisterNotStarted
	}

	data, err := afero.ReadFile(p.fs, p.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		err = fmt.Errorf("error reading %s %w", key, err)
		log.Error().Err(err).Send()
		return err
	}

	err = json.Unmarshal(data, v)
	if err != nil {
		return fmt.Errorf("error decoding %s %w", key, err)
	}

	return nil
}

func (p *Persister) removeTempFile(path string) {
	err := p.fs.Remove(path)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("could not clean up temp file")
		return
	}
	log.Debug().Str("path", path).Msg("cleaned up temp file")
}
