// Package fetch downloads e-Stat archives and extracts the statistics file
// inside each one.
//
// Downloads run with bounded parallelism. An archive already present in the
// working directory is reused, and a 404 means the survey has no data for that
// first-level mesh, so the item is skipped.
package fetch

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"golang.org/x/sync/errgroup"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/logging"
)

const (
	DefaultConcurrency = 10
	DefaultTimeout     = 60 * time.Second
	// DefaultMemberExt is the extension of the statistics file in mesh archives.
	DefaultMemberExt = ".txt"
)

// Item is one archive to retrieve.
type Item struct {
	// Key orders results, usually the first-level mesh code.
	Key     uint64
	URL     string
	Archive string
}

// Result is one extracted statistics file.
type Result struct {
	Key  uint64
	Path string
	// Cached is true when the archive was already on disk.
	Cached bool
}

// Fetcher downloads and extracts archives into Dir.
type Fetcher struct {
	client      *http.Client
	dir         string
	concurrency int
	memberExt   string
	logger      *slog.Logger
}

// NewFetcher creates a Fetcher working in dir. A nil client gets DefaultTimeout
// and concurrency <= 0 means DefaultConcurrency.
func NewFetcher(client *http.Client, dir string, concurrency int, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	return &Fetcher{
		client:      client,
		dir:         dir,
		concurrency: concurrency,
		memberExt:   DefaultMemberExt,
		logger:      logging.OrDiscard(logger),
	}
}

// FetchAll retrieves every item and returns the extracted files sorted by
// key. Items answered with 404 are left out. The first other failure cancels
// the remaining work.
func (f *Fetcher) FetchAll(ctx context.Context, items []Item) ([]Result, error) {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", f.dir, err)
	}

	results := make([]*Result, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, item := range items {
		g.Go(func() error {
			res, err := f.fetch(ctx, item)
			if err != nil {
				return err
			}
			results[i] = res

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Result, 0, len(items))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	slices.SortFunc(out, func(a, b Result) int {
		return cmp.Compare(a.Key, b.Key)
	})

	f.logger.Info("fetched archives",
		slog.Int("requested", len(items)),
		slog.Int("available", len(out)),
	)

	return out, nil
}

// fetch returns nil, nil for a missing archive.
func (f *Fetcher) fetch(ctx context.Context, item Item) (*Result, error) {
	archive := filepath.Join(f.dir, item.Archive)

	cached := true
	if _, err := os.Stat(archive); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cached = false

		found, err := f.download(ctx, item.URL, archive)
		if err != nil {
			return nil, err
		}
		if !found {
			f.logger.Debug("archive not available", slog.String("url", item.URL))
			return nil, nil
		}
	}

	path, err := Extract(archive, f.memberExt)
	if err != nil {
		return nil, err
	}

	return &Result{Key: item.Key, Path: path, Cached: cached}, nil
}

// download writes the response body to dst. It reports false on 404.
func (f *Fetcher) download(ctx context.Context, url, dst string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", errs.ErrDownloadFailed, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("%w: %s: status %d", errs.ErrDownloadFailed, url, resp.StatusCode)
	}

	// a partial download must never look like a cached archive
	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.part")
	if err != nil {
		return false, err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return false, fmt.Errorf("%w: %s: %w", errs.ErrDownloadFailed, url, err)
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return false, err
	}

	f.logger.Debug("downloaded archive", slog.String("url", url), slog.String("path", dst))

	return true, nil
}

// Extract unpacks archive into a directory named after it without the .zip
// extension, replacing any earlier extraction, and returns the path of the
// first member (by name) ending in ext.
func Extract(archive, ext string) (string, error) {
	outDir := strings.TrimSuffix(archive, filepath.Ext(archive))
	if err := os.RemoveAll(outDir); err != nil {
		return "", err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}

	zr, err := zip.OpenReader(archive)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", archive, err)
	}
	defer zr.Close()

	var matches []string
	for _, zf := range zr.File {
		name := filepath.FromSlash(zf.Name)
		if !filepath.IsLocal(name) {
			return "", fmt.Errorf("%s: unsafe member path %q", archive, zf.Name)
		}
		target := filepath.Join(outDir, name)

		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return "", err
			}
			continue
		}
		if err := extractFile(zf, target); err != nil {
			return "", fmt.Errorf("%s: %w", archive, err)
		}
		if strings.EqualFold(filepath.Ext(name), ext) {
			matches = append(matches, target)
		}
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%w: no %s file in %s", errs.ErrArchiveMemberMiss, ext, archive)
	}
	slices.Sort(matches)

	return matches[0], nil
}

func extractFile(zf *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil { //nolint: gosec
		out.Close()
		return err
	}

	return out.Close()
}
