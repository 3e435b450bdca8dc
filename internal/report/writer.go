package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/pkg/logger"
)

// FileWriter writes the report to a fixed path.
// 임시 파일에 쓰고 rename → 실패 시 기존 리포트 유지
type FileWriter struct {
	path   string
	logger *logger.Logger
}

// NewFileWriter creates a new file writer
func NewFileWriter(path string, log *logger.Logger) *FileWriter {
	return &FileWriter{path: path, logger: log}
}

// Path returns the destination path
func (w *FileWriter) Path() string {
	return w.path
}

// Write replaces the report file atomically
func (w *FileWriter) Write(ctx context.Context, rep *contracts.DecisionReport, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp report: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp report: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		cleanup()
		return fmt.Errorf("rename report: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"run_id": rep.RunID,
		"path":   w.path,
		"bytes":  len(data),
	}).Info("Report written")
	return nil
}

// StreamWriter copies the report to an io.Writer (wheel run --stdout)
type StreamWriter struct {
	w io.Writer
}

// NewStreamWriter creates a new stream writer
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: w}
}

// Write writes the encoded report
func (s *StreamWriter) Write(_ context.Context, _ *contracts.DecisionReport, data []byte) error {
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("stream report: %w", err)
	}
	return nil
}
