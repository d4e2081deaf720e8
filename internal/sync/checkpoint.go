package sync

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yungbote/transcriptgraph/internal/platform/logger"
)

// Checkpoint owns the two pieces of durable run state: the forward-scan
// cursor (last companyid whose cycle completed) and the failure ledger.
// The ledger is append-only; a replayed-and-succeeded company is recorded in
// a .resolved sidecar instead of being removed, so the failure history
// survives for operators.
type Checkpoint struct {
	cursorPath string
	ledgerPath string
	log        *logger.Logger
}

func NewCheckpoint(cursorPath, ledgerPath string, baseLog *logger.Logger) *Checkpoint {
	return &Checkpoint{
		cursorPath: cursorPath,
		ledgerPath: ledgerPath,
		log:        baseLog.With("component", "Checkpoint"),
	}
}

// Cursor returns the persisted lower bound, or 0 when no cursor file exists
// yet (a fresh run scans everything).
func (c *Checkpoint) Cursor() (int64, error) {
	raw, err := os.ReadFile(c.cursorPath)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read cursor: %w", err)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse cursor %q: %w", strings.TrimSpace(string(raw)), err)
	}
	return v, nil
}

func (c *Checkpoint) SetCursor(companyID int64) error {
	if err := os.MkdirAll(filepath.Dir(c.cursorPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(c.cursorPath, []byte(strconv.FormatInt(companyID, 10)+"\n"), 0o644)
}

// RecordFailure appends companyID to the ledger. Never deduplicates:
// history is cheap and the read side dedups.
func (c *Checkpoint) RecordFailure(companyID int64) error {
	return appendID(c.ledgerPath, companyID)
}

// MarkResolved records a successful replay without touching the ledger.
func (c *Checkpoint) MarkResolved(companyID int64) error {
	return appendID(c.resolvedPath(), companyID)
}

// FailedIDs returns the ledger entries that have not been resolved, in
// first-failure order, deduplicated.
func (c *Checkpoint) FailedIDs() ([]int64, error) {
	resolvedList, err := readIDs(c.resolvedPath())
	if err != nil {
		return nil, err
	}
	resolved := make(map[int64]bool, len(resolvedList))
	for _, id := range resolvedList {
		resolved[id] = true
	}

	ledger, err := readIDs(c.ledgerPath)
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]bool, len(ledger))
	out := make([]int64, 0, len(ledger))
	for _, id := range ledger {
		if seen[id] || resolved[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

func (c *Checkpoint) resolvedPath() string {
	return c.ledgerPath + ".resolved"
}

func appendID(path string, id int64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f, "%d\n", id); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readIDs(path string) ([]int64, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []int64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			// Operators hand-edit this file between runs; tolerate
			// malformed lines.
			continue
		}
		out = append(out, id)
	}
	return out, scanner.Err()
}
