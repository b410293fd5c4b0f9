package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunStatus is the metadata recorded alongside each digest artifact.
type RunStatus struct {
	Delivered       bool `json:"telegram_sent"`
	ItemsCollected  int  `json:"items_collected"`
	CorporateItems  int  `json:"corporate_items_count"`
	ChunksDelivered int  `json:"chunks_delivered,omitempty"`
}

// ArtifactWriter persists one rendered digest per run as a timestamped
// file: the body, then a METADATA: marker, then the run status JSON.
type ArtifactWriter struct {
	Dir    string
	Prefix string // file name prefix, e.g. "digest" or "ai_digest"
}

// Write stores the digest and returns the file path. The artifact is
// written whether or not delivery succeeded.
func (w *ArtifactWriter) Write(body string, status RunStatus, now time.Time) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}

	meta, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal run status: %w", err)
	}

	name := fmt.Sprintf("%s_%s.md", w.Prefix, now.Format("20060102_1504"))
	path := filepath.Join(w.Dir, name)

	content := body + "\n\nMETADATA:\n" + string(meta) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write digest file: %w", err)
	}
	return path, nil
}
