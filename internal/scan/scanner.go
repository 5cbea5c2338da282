// Package scan walks directories and turns matching files into episode
// metadata ready for transaction building.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/epirename/epirename/internal/episode"
	"github.com/epirename/epirename/internal/rename"
	"github.com/epirename/epirename/pkg/epname"
)

var ErrUnknownPreset = errors.New("scan: unknown extension preset")

// Presets are the built-in extension sets. The "all" preset matches every
// extension.
var Presets = map[string][]string{
	"video": {".mp4", ".mkv", ".avi", ".mov", ".wmv", ".flv", ".webm", ".m4v", ".mpg", ".mpeg", ".ts", ".m2ts"},
	"audio": {".mp3", ".flac", ".aac", ".ogg", ".wav", ".m4a", ".wma", ".opus"},
	"docs":  {".pdf", ".epub", ".mobi", ".azw3", ".txt", ".doc", ".docx"},
	"all":   {},
}

// Options control what a scan matches and how deep it goes.
type Options struct {
	Preset        string   // named extension set; ignored when Extensions is set
	Extensions    []string // explicit extensions, with or without leading dot
	Recursive     bool
	MaxDepth      int // directory levels below the root, 0 means unlimited
	IncludeHidden bool
}

// Stats summarizes one scanned root.
type Stats struct {
	Dirs            int
	Files           int
	Matched         int
	SkippedHidden   int
	SkippedStaging  int
	SkippedByFilter int
}

// Result is the outcome of scanning one root.
type Result struct {
	Root  string
	Metas []episode.Metadata // sorted in natural episode order
	Stats Stats
}

// Scanner walks directories for renameable files.
type Scanner struct {
	exts map[string]bool // empty means match everything
	opts Options
	log  *slog.Logger
}

// New creates a scanner. A nil logger falls back to slog.Default.
func New(opts Options, log *slog.Logger) (*Scanner, error) {
	if log == nil {
		log = slog.Default()
	}

	exts := make(map[string]bool)
	switch {
	case len(opts.Extensions) > 0:
		for _, e := range opts.Extensions {
			e = strings.ToLower(strings.TrimSpace(e))
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			exts[e] = true
		}
	default:
		preset := opts.Preset
		if preset == "" {
			preset = "video"
		}
		list, ok := Presets[preset]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
		}
		for _, e := range list {
			exts[e] = true
		}
	}

	return &Scanner{exts: exts, opts: opts, log: log}, nil
}

// Scan walks one root and returns metadata for every matching file, in
// natural episode order.
func (s *Scanner) Scan(ctx context.Context, root string) (Result, error) {
	result := Result{Root: root}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}

		name := d.Name()
		if d.IsDir() {
			if path == root {
				result.Stats.Dirs++
				return nil
			}
			if !s.opts.IncludeHidden && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if !s.opts.Recursive {
				return filepath.SkipDir
			}
			if s.opts.MaxDepth > 0 && s.depth(root, path) > s.opts.MaxDepth {
				return filepath.SkipDir
			}
			result.Stats.Dirs++
			return nil
		}

		result.Stats.Files++
		switch {
		case rename.IsStagingName(name):
			result.Stats.SkippedStaging++
			s.log.Warn("skipping leftover staging file", "path", path)
			return nil
		case !s.opts.IncludeHidden && strings.HasPrefix(name, "."):
			result.Stats.SkippedHidden++
			return nil
		case !s.matches(name):
			result.Stats.SkippedByFilter++
			return nil
		}

		meta, err := fileMetadata(name, path)
		if err != nil {
			return fmt.Errorf("metadata for %s: %w", path, err)
		}
		result.Metas = append(result.Metas, meta)
		result.Stats.Matched++
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("scan %s: %w", root, err)
	}

	result.Metas = episode.Sort(result.Metas)
	return result, nil
}

// ScanAll scans multiple roots concurrently. Results keep the order of the
// given roots; the first error cancels the remaining scans.
func (s *Scanner) ScanAll(ctx context.Context, roots []string) ([]Result, error) {
	results := make([]Result, len(roots))
	g, ctx := errgroup.WithContext(ctx)

	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			r, err := s.Scan(ctx, root)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Scanner) matches(name string) bool {
	if len(s.exts) == 0 {
		return true
	}
	return s.exts[strings.ToLower(filepath.Ext(name))]
}

// depth counts directory levels below the root, root itself being zero.
func (s *Scanner) depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// fileMetadata parses one filename into episode metadata.
func fileMetadata(name, path string) (episode.Metadata, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	parsed := epname.Parse(stem)
	m, err := episode.New(name, path, parsed.Confidence)
	if err != nil {
		return episode.Metadata{}, err
	}
	m.Extension = ext
	m.Season = parsed.Season
	m.Episode = parsed.Episode
	if parsed.HasNumber() {
		m = m.WithNumber(*parsed.Number, parsed.Method)
	}
	return m.WithTitle(epname.CleanTitle(stem)), nil
}
