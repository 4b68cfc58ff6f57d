// Package audit appends classified feature vectors to a CSV training log.
package audit

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/ports"
)

// CSVLogger is an append-only feature auditor backed by a single CSV file.
// Every classified login attempt lands here with its label, so the file can
// feed offline retraining of the oracle's model.
type CSVLogger struct {
	mu   sync.Mutex
	path string
}

// NewCSVLogger opens or creates the audit log. A new file gets a header row
// with the canonical feature column names plus the label column; an existing
// file is appended to as-is, whatever its header says.
func NewCSVLogger(path string) (*CSVLogger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating audit log directory: %w", err)
		}
	}

	info, err := os.Stat(path)
	needHeader := os.IsNotExist(err) || (err == nil && info.Size() == 0)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking audit log: %w", err)
	}

	l := &CSVLogger{path: path}
	if needHeader {
		if err := l.writeRow(headerRow()); err != nil {
			return nil, fmt.Errorf("writing audit log header: %w", err)
		}
	}
	return l, nil
}

// Append writes one labeled sample. The file is opened per call so an
// external rotation of the log never leaves a stale handle.
func (l *CSVLogger) Append(features domain.FeatureVector, label domain.SampleLabel) error {
	row := make([]string, 0, domain.FeaturesLen+1)
	for _, v := range features {
		row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
	}
	row = append(row, string(label))
	return l.writeRow(row)
}

func (l *CSVLogger) writeRow(row []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}

func headerRow() []string {
	header := make([]string, 0, domain.FeaturesLen+1)
	header = append(header, domain.FeatureNames[:]...)
	header = append(header, "label")
	return header
}

// Ensure interface compliance
var _ ports.FeatureAuditor = (*CSVLogger)(nil)
