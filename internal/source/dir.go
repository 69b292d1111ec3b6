package source

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/foliolab/folio-server/internal/domain"
	"github.com/foliolab/folio-server/internal/logger"
)

// DirSource reads content records from a directory of JSON files.
// Each file may hold a single record object or an array of records.
// Files are read in name order so batches are deterministic.
type DirSource struct {
	dir string
	log *logger.Logger
}

// NewDir creates a directory source.
func NewDir(dir string, log *logger.Logger) *DirSource {
	return &DirSource{dir: dir, log: log}
}

// Fetch reads every .json file in the directory. A file that fails to
// parse is skipped with a warning; one bad file never hides the rest.
func (s *DirSource) Fetch(ctx context.Context) ([]domain.ContentRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var records []domain.ContentRecord
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path) //#nosec G304 -- Content dir is operator-configured
		if err != nil {
			s.log.Warn("skipping unreadable content file", "path", path, "error", err)
			continue
		}

		parsed, err := parseRecords(data)
		if err != nil {
			s.log.Warn("skipping malformed content file", "path", path, "error", err)
			continue
		}
		records = append(records, parsed...)
	}

	return records, nil
}

// parseRecords accepts either a single record object or an array.
func parseRecords(data []byte) ([]domain.ContentRecord, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var records []domain.ContentRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var record domain.ContentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return []domain.ContentRecord{record}, nil
}
