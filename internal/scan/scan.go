// Package scan walks a repository, has each selected file analyzed by the
// understanding oracle and registers the result in the index. A single bad
// file never aborts the scan; only a bad root does.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"codegraph/internal/index"
	"codegraph/internal/safeio"
	t "codegraph/internal/types"
)

// ErrBadRoot reports a scan root that does not exist or is not a directory.
// This is fatal: no partial scan is attempted.
var ErrBadRoot = errors.New("scan: root does not exist or is not a directory")

// Analyzer is the oracle operation the scanner depends on.
type Analyzer interface {
	AnalyzeFile(ctx context.Context, filename, source string) (t.FileFacts, error)
}

// DefaultExtensions matches the historical scanner defaults.
var DefaultExtensions = []string{".py", ".js", ".java", ".cpp", ".c", ".h"}

var defaultSkipDirs = map[string]bool{
	".git": true, ".hg": true, ".svn": true,
	"node_modules": true, "vendor": true, "dist": true, "build": true,
	".next": true, ".cache": true,
}

const (
	EventIngest = "ingest"
	EventSkip   = "skip"
	EventDone   = "done"
)

// Event is one progress notification.
type Event struct {
	Kind   string `json:"kind"`
	Path   string `json:"path,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

type Summary struct {
	Ingested int           `json:"ingested"`
	Skipped  []SkippedFile `json:"skipped,omitempty"`
	CacheHit int           `json:"cache_hits"`
}

type Scanner struct {
	Index      *index.Index
	Oracle     Analyzer
	Extensions []string
	SkipDirs   []string
	Cache      *AnalysisCache
	// OnEvent, when set, receives progress events (cli logging, ws stream).
	OnEvent func(Event)
}

func (s *Scanner) emit(ev Event) {
	if s.OnEvent != nil {
		s.OnEvent(ev)
	}
}

func (s *Scanner) allowed(ext string) bool {
	exts := s.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	for _, e := range exts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

func (s *Scanner) skipDir(name string) bool {
	if len(s.SkipDirs) == 0 {
		return defaultSkipDirs[name]
	}
	for _, d := range s.SkipDirs {
		if d == name {
			return true
		}
	}
	return false
}

// ScanDir ingests every matching file under root. Cancellation is checked
// between files; per-file failures are logged, recorded in the summary and
// skipped.
func (s *Scanner) ScanDir(ctx context.Context, root string) (Summary, error) {
	fsys, err := safeio.New(root)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %s (%v)", ErrBadRoot, root, err)
	}

	var rels []string
	walkErr := filepath.WalkDir(fsys.Root(), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if s.skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.allowed(strings.ToLower(filepath.Ext(p))) {
			return nil
		}
		rel, err := filepath.Rel(fsys.Root(), p)
		if err != nil {
			return nil
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if walkErr != nil {
		return Summary{}, walkErr
	}

	var sum Summary
	for _, rel := range rels {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if err := s.ingest(ctx, fsys, rel, &sum); err != nil {
			sum.Skipped = append(sum.Skipped, SkippedFile{Path: rel, Reason: err.Error()})
			s.emit(Event{Kind: EventSkip, Path: rel, Reason: err.Error()})
			log.Printf("scan: skipping %s: %v", rel, err)
			continue
		}
		sum.Ingested++
		s.emit(Event{Kind: EventIngest, Path: rel})
	}

	s.emit(Event{Kind: EventDone})
	log.Printf("scan: %d files ingested, %d skipped, %d cache hits", sum.Ingested, len(sum.Skipped), sum.CacheHit)
	return sum, nil
}

// ingest analyzes one file and registers its facts. The file key is the base
// name, matching how imports are declared in the analysis output.
func (s *Scanner) ingest(ctx context.Context, fsys *safeio.SafeFS, rel string, sum *Summary) error {
	code, err := fsys.ReadFile(rel)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	name := filepath.Base(rel)

	facts, hit := s.cacheGet(code)
	if hit {
		sum.CacheHit++
	} else {
		facts, err = s.Oracle.AnalyzeFile(ctx, name, string(code))
		if err != nil {
			return err
		}
		s.cachePut(code, facts)
	}

	return s.Index.AddFile(name, facts)
}

func (s *Scanner) cacheGet(code []byte) (t.FileFacts, bool) {
	if s.Cache == nil {
		return t.FileFacts{}, false
	}
	return s.Cache.Get(code)
}

func (s *Scanner) cachePut(code []byte, facts t.FileFacts) {
	if s.Cache != nil {
		s.Cache.Put(code, facts)
	}
}

// ScanGitHub clones a repository (shallow) into a temp directory and scans it.
func (s *Scanner) ScanGitHub(ctx context.Context, rawURL string) (Summary, error) {
	path, err := CloneGitHub(ctx, rawURL)
	if err != nil {
		return Summary{}, err
	}
	log.Printf("scan: cloned %s to %s", rawURL, path)
	return s.ScanDir(ctx, path)
}
