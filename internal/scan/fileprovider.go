package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retailscan/retailscan/internal/normalize"
)

// FileProvider serves snapshots from <dir>/<SYMBOL>.json fixtures. Used for
// offline scans and demos; live deployments plug in collector-backed
// providers instead.
type FileProvider struct {
	dir string
}

func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{dir: dir}
}

func (p *FileProvider) Snapshot(_ context.Context, symbol string) (*normalize.Snapshot, error) {
	path := filepath.Join(p.dir, strings.ToUpper(symbol)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot for %s: %w", symbol, err)
	}

	var snap normalize.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot for %s: %w", symbol, err)
	}
	if snap.Symbol == "" {
		snap.Symbol = strings.ToUpper(symbol)
	}
	return &snap, nil
}
