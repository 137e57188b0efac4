package store

import (
	"os"
	"path/filepath"
	"time"
)

// CleanStaleTemp removes temp files left behind by saves that were
// interrupted before their rename. Only files older than retention are
// touched, so an in-flight save is never raced.
func (s *FileStore) CleanStaleTemp(retention time.Duration) (int, error) {
	pattern := filepath.Join(s.dir, "*.json.tmp")
	files, err := filepath.Glob(pattern)
	if err != nil {
		s.logger.Printf("temp cleanup error: %v", err)
		return 0, err
	}

	cutoff := time.Now().Add(-retention)
	cleaned := 0

	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(f); err != nil {
				s.logger.Printf("failed to remove temp file %s: %v", f, err)
			} else {
				cleaned++
			}
		}
	}

	if cleaned > 0 {
		s.logger.Printf("cleaned up %d stale temp files", cleaned)
	}
	return cleaned, nil
}
