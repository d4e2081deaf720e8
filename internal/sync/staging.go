package sync

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	types "github.com/yungbote/transcriptgraph/internal/domain"
	"github.com/yungbote/transcriptgraph/internal/platform/logger"
)

const (
	componentsFile     = "batch.jsonl"
	participationsFile = "batch_participations.jsonl"
	participantsFile   = "batch_participants_unique.jsonl"
	metaFile           = "batch_meta.json"
)

// Store persists the typed batch as per-company JSON-lines files so a load
// can be inspected or replayed without re-querying the source. The typed
// Batch itself is what flows between Transformer and Loader; these files are
// a side artifact, overwritten on every re-run of the same company.
type Store struct {
	dir string
	log *logger.Logger
}

func NewStore(dir string, baseLog *logger.Logger) *Store {
	return &Store{dir: dir, log: baseLog.With("component", "StagingStore")}
}

func (s *Store) companyDir(companyID int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("company_%d", companyID))
}

func (s *Store) WriteBatch(batch *types.Batch) error {
	dir := s.companyDir(batch.CompanyID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("stage company %d: %w", batch.CompanyID, err)
	}

	if err := writeLines(filepath.Join(dir, componentsFile), batch.Components); err != nil {
		return err
	}
	if err := writeLines(filepath.Join(dir, participationsFile), batch.Participations); err != nil {
		return err
	}
	if err := writeLines(filepath.Join(dir, participantsFile), batch.Participants); err != nil {
		return err
	}

	meta := types.Batch{
		CompanyID:   batch.CompanyID,
		RunID:       batch.RunID,
		ExtractedAt: batch.ExtractedAt,
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, metaFile), raw, 0o644); err != nil {
		return err
	}

	s.log.Debug("staged batch", "companyid", batch.CompanyID, "dir", dir)
	return nil
}

func (s *Store) ReadBatch(companyID int64) (*types.Batch, error) {
	dir := s.companyDir(companyID)

	raw, err := os.ReadFile(filepath.Join(dir, metaFile))
	if err != nil {
		return nil, fmt.Errorf("read staged batch for company %d: %w", companyID, err)
	}
	var batch types.Batch
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, err
	}

	if err := readLines(filepath.Join(dir, componentsFile), &batch.Components); err != nil {
		return nil, err
	}
	if err := readLines(filepath.Join(dir, participationsFile), &batch.Participations); err != nil {
		return nil, err
	}
	if err := readLines(filepath.Join(dir, participantsFile), &batch.Participants); err != nil {
		return nil, err
	}
	return &batch, nil
}

func writeLines[T any](path string, records []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func readLines[T any](path string, out *[]T) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec T
		if err := json.Unmarshal(line, &rec); err != nil {
			return err
		}
		*out = append(*out, rec)
	}
	return scanner.Err()
}
