// Package loader pushes a folder of exported match files into the match store.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/scrimlab/scrim-stats/internal/models"
)

// MatchWriter is the part of the match store the loader writes to
type MatchWriter interface {
	InsertMatches(ctx context.Context, docs []models.RawMatch) (int, error)
}

// Config configures a Loader
type Config struct {
	Store MatchWriter
	// Workers bounds concurrent file parsing.
	Workers int
	// Cleanup removes each file once its documents are stored.
	Cleanup bool
	Logger  *zap.Logger
}

// SkippedFile is a file that was read but not loaded
type SkippedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Result summarises one loader run
type Result struct {
	RunID        uuid.UUID     `json:"runId"`
	FilesRead    int           `json:"filesRead"`
	FilesSkipped []SkippedFile `json:"filesSkipped"`
	Inserted     int           `json:"inserted"`
	Duplicates   int           `json:"duplicates"`
	Removed      int           `json:"removed"`
}

// Loader reads *.json files and stores their documents
type Loader struct {
	cfg    Config
	logger *zap.SugaredLogger
}

func New(cfg Config) *Loader {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Loader{cfg: cfg, logger: cfg.Logger.Sugar()}
}

type parsedFile struct {
	path string
	docs []models.RawMatch
	err  error
}

// Load stores the documents of every regular *.json file directly inside dir,
// in file-name order. Files that do not hold documents are reported in the
// result and do not stop the run; store errors do.
func (l *Loader) Load(ctx context.Context, dir string) (*Result, error) {
	paths, err := listJSONFiles(dir)
	if err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.New(), FilesSkipped: []SkippedFile{}}
	log := l.logger.With("runId", result.RunID)
	log.Infow("Loading match files", "dir", dir, "files", len(paths))

	parsed := make([]parsedFile, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.cfg.Workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			docs, err := readFile(path)
			parsed[i] = parsedFile{path: path, docs: docs, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := bloom.NewWithEstimates(500000, 0.001)
	for _, pf := range parsed {
		name := filepath.Base(pf.path)
		result.FilesRead++

		if pf.err != nil {
			log.Warnw("Skipping file", "file", name, "reason", pf.err)
			result.FilesSkipped = append(result.FilesSkipped, SkippedFile{Name: name, Reason: pf.err.Error()})
			continue
		}

		docs := make([]models.RawMatch, 0, len(pf.docs))
		for _, doc := range pf.docs {
			if id := doc.MatchID(); id != "" {
				if seen.TestString(id) {
					result.Duplicates++
					continue
				}
				seen.AddString(id)
			}
			docs = append(docs, doc)
		}
		if len(docs) == 0 {
			log.Infow("All documents already loaded in this run", "file", name)
			continue
		}

		n, err := l.cfg.Store.InsertMatches(ctx, docs)
		result.Inserted += n
		if err != nil {
			return result, fmt.Errorf("insert %s: %w", name, err)
		}
		log.Infow("Loaded file", "file", name, "documents", n)

		if l.cfg.Cleanup {
			if err := os.Remove(pf.path); err != nil {
				log.Warnw("Failed to remove loaded file", "file", name, "error", err)
			} else {
				result.Removed++
			}
		}
	}

	log.Infow("Load finished",
		"filesRead", result.FilesRead,
		"filesSkipped", len(result.FilesSkipped),
		"inserted", result.Inserted,
		"duplicates", result.Duplicates,
	)
	return result, nil
}

func listJSONFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

var errNoDocuments = errors.New("not a valid list of documents")

// readFile decodes one export file. A top-level object becomes a one-element
// list; an empty list, a scalar or null is rejected.
func readFile(path string) ([]models.RawMatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	docs, err := models.DecodeMatches(data)
	if err != nil {
		var shapeErr *models.DataShapeError
		if errors.As(err, &shapeErr) {
			return nil, fmt.Errorf("%w: %s", errNoDocuments, shapeErr.Reason)
		}
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errNoDocuments
	}
	return docs, nil
}
