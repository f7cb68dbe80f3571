package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/roach88/cavity/internal/recorder"
)

// Default table paths, relative to the working directory.
const (
	DefaultTimeLog = "logs/time_logs.csv"
	DefaultFreqLog = "logs/freq_logs.csv"
)

// TableFile describes one written table.
type TableFile struct {
	Recorder string `json:"recorder"`
	Domain   string `json:"domain"`
	Path     string `json:"path"`
	Entries  int    `json:"entries"`
	Bytes    int64  `json:"bytes"`
}

// tablePath returns base unchanged for a single recorder; with several
// recorders the recorder name is appended to the file stem.
func tablePath(base, name string, multi bool) string {
	if !multi {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + name + ext
}

// writeTables writes the time and frequency tables of every recorder.
// An empty path skips that domain.
func writeTables(logger *slog.Logger, recs []*recorder.Recorder, timeLog, freqLog string) ([]TableFile, error) {
	multi := len(recs) > 1
	var files []TableFile
	for _, r := range recs {
		for _, out := range []struct {
			base   string
			domain recorder.Domain
		}{
			{timeLog, recorder.Time},
			{freqLog, recorder.Frequency},
		} {
			if out.base == "" {
				continue
			}
			path := tablePath(out.base, r.Name(), multi)
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return files, fmt.Errorf("create %s: %w", dir, err)
				}
			}
			if err := r.WriteFile(path, out.domain); err != nil {
				return files, err
			}
			info, err := os.Stat(path)
			if err != nil {
				return files, err
			}
			logger.Info("table written",
				"recorder", r.Name(),
				"domain", out.domain.String(),
				"path", path,
				"entries", r.Len(),
				"size", humanize.Bytes(uint64(info.Size())))
			files = append(files, TableFile{
				Recorder: r.Name(),
				Domain:   out.domain.String(),
				Path:     path,
				Entries:  r.Len(),
				Bytes:    info.Size(),
			})
		}
	}
	return files, nil
}
