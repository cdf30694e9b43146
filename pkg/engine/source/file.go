package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ruleSetExtensions are the file extensions recognized as rule sets.
var ruleSetExtensions = []string{".json", ".yaml", ".yml"}

// FileSource serves rule sets from disk. References are paths, resolved
// against the base directory when one is configured.
type FileSource struct {
	baseDir string
	logger  *slog.Logger
}

// NewFileSource creates a file-backed rule source. baseDir may be empty,
// in which case references are used as paths directly.
func NewFileSource(baseDir string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{
		baseDir: baseDir,
		logger:  logger,
	}
}

// Load reads the rule set at ref.
func (s *FileSource) Load(ctx context.Context, ref string) ([]byte, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule set %q: %w", ref, err)
	}

	s.logger.Debug("loaded rule set file", "ref", ref, "path", path, "bytes", len(data))
	return data, nil
}

// List returns the references of every rule-set file under the base
// directory, relative to it, in walk order.
func (s *FileSource) List(ctx context.Context) ([]string, error) {
	if s.baseDir == "" {
		return nil, fmt.Errorf("file source has no base directory to list")
	}

	var refs []string
	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !hasRuleSetExtension(path) {
			return nil
		}
		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			return err
		}
		refs = append(refs, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %q: %w", s.baseDir, err)
	}
	return refs, nil
}

// resolve maps a reference to a filesystem path, refusing references that
// escape the base directory.
func (s *FileSource) resolve(ref string) (string, error) {
	if s.baseDir == "" {
		return ref, nil
	}

	path := filepath.Join(s.baseDir, ref)
	base, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if abs != base && !strings.HasPrefix(abs, base+string(filepath.Separator)) {
		return "", fmt.Errorf("reference %q escapes base directory", ref)
	}
	return path, nil
}

func hasRuleSetExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range ruleSetExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
