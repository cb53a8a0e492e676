package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

const promptReadme = `# Enrichment prompts

Each <name>.txt file here is a template sent to the enrichment model.
Edit a file and restart the server to change how documents are tagged.
Delete a file to restore the built-in version on the next start.

- categorise.txt: %s file name, then %s content. Reply with tags, category and summary as JSON.
- extract_receipt.txt: %s content. Reply with the expense fields as JSON.
`

// PromptStore serves enrichment prompts from <dir>/<name>.txt.
// Files are read once when the store opens; edits apply on restart.
type PromptStore struct {
	dir     string
	prompts map[string]string
}

// NewPromptStore writes any missing default prompt into dir and reads every
// known prompt. A file that is empty after trimming falls back to its default.
func NewPromptStore(dir string, defaults map[string]string) (*PromptStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create prompt dir: %w", err)
	}
	if err := writeIfMissing(filepath.Join(dir, "README.md"), promptReadme); err != nil {
		return nil, err
	}

	s := &PromptStore{dir: dir, prompts: make(map[string]string, len(defaults))}
	for name, def := range defaults {
		path := filepath.Join(dir, name+".txt")
		if err := writeIfMissing(path, def); err != nil {
			return nil, err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read prompt %q: %w", name, err)
		}
		s.prompts[name] = strings.TrimSpace(string(raw))
		if s.prompts[name] == "" {
			s.prompts[name] = def
		}
	}
	return s, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) Load(name string) (string, error) {
	p, ok := s.prompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	return p, nil
}

func writeIfMissing(path, content string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
