// Package pipeline drives batch conversions: it scans inputs, fans every
// source out to one worker per scale factor and writes the encoded files and
// the manifest.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/AnyUserName/wirthmage-cli/internal/hasher"
	"github.com/AnyUserName/wirthmage-cli/internal/manifest"
	"github.com/AnyUserName/wirthmage-cli/internal/processor"
	"github.com/AnyUserName/wirthmage-cli/internal/setting"
	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultQueueSize is the per-worker task queue capacity.
const DefaultQueueSize = 1

// hashDirLen is the length of the directory name used for repeated base
// names.
const hashDirLen = 8

// Config holds all parameters for a conversion run.
type Config struct {
	Inputs    []string
	OutputDir string
	Settings  setting.Settings
	QueueSize int
	Verbose   bool
}

// Pipeline orchestrates batch conversion.
type Pipeline struct {
	cfg Config
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	return &Pipeline{cfg: cfg}
}

// Run converts every input and returns the manifest of written files. Items
// that fail are logged and recorded; Run fails only when no item succeeds.
// ctx is checked between items: the item in flight is always finished, and a
// canceled run returns the partial manifest together with ctx.Err().
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	s := p.cfg.Settings
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	scales := s.Scales()
	format := s.Format()

	opts := make([]processor.Options, len(scales))
	for i, sc := range scales {
		o, err := s.Options(sc.Factor)
		if err != nil {
			return nil, fmt.Errorf("options x%d: %w", sc.Factor, err)
		}
		opts[i] = o
	}

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.Inputs...)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", strings.Join(p.cfg.Inputs, ", "))
	}
	p.logf("found %d images, %d scale(s), output %s", len(sources), len(scales), format.Kind)

	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	// Step 2: Start one worker per scale.
	results := make(chan taskResult, len(scales))
	workers := make([]*scaleWorker, len(scales))
	var wg sync.WaitGroup
	for i, sc := range scales {
		workers[i] = newScaleWorker(sc, format, p.cfg.QueueSize, results)
		wg.Add(1)
		go workers[i].run(&wg)
	}
	defer func() {
		for _, w := range workers {
			close(w.tasks)
		}
		wg.Wait()
	}()

	// Step 3: Convert items one at a time; writes happen only here.
	m := manifest.New(s)
	m.BuildInfo = &manifest.BuildInfo{Workers: len(workers), QueueSize: p.cfg.QueueSize}
	written := map[string]bool{}

	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			m.Canceled = true
			m.ComputeStats()
			fmt.Fprintf(os.Stderr, "[wirthmage] canceled after %d of %d images\n", i, len(sources))
			return m, err
		}

		p.logf("processing: %s", src.RelPath)
		key, item, err := p.convert(src, workers, opts, results, written)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[wirthmage] error: %s: %v\n", src.RelPath, err)
			m.Failures = append(m.Failures, manifest.Failure{Source: src.RelPath, Error: err.Error()})
			continue
		}
		m.Items[key] = item
		written[src.BaseName] = true
		p.logf("done: %s (%d outputs)", key, len(item.Outputs))
	}

	m.ComputeStats()
	if n := len(m.Failures); n > 0 {
		if n == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", n)
		}
		fmt.Fprintf(os.Stderr, "[wirthmage] warning: %d of %d images had errors\n", n, len(sources))
	}
	return m, nil
}

// convert decodes one source, runs it through every scale worker and writes
// the outputs. Nothing is written unless every scale succeeded.
func (p *Pipeline) convert(src Source, workers []*scaleWorker, opts []processor.Options,
	results <-chan taskResult, written map[string]bool) (string, manifest.Item, error) {
	var item manifest.Item

	data, err := os.ReadFile(src.AbsPath)
	if err != nil {
		return "", item, fmt.Errorf("read: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", item, fmt.Errorf("decode: %w", err)
	}
	srcHash := hasher.ContentHash(data, 16)

	bounds := img.Bounds()
	item.Source = manifest.SourceInfo{
		Path:   src.RelPath,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: src.Format,
		Size:   src.Size,
		Hash:   srcHash,
	}

	for i, w := range workers {
		w.tasks <- task{img: img, opts: opts[i]}
	}
	byScale := map[int]taskResult{}
	var errs []error
	for range workers {
		r := <-results
		if r.err != nil {
			errs = append(errs, r.err)
		}
		byScale[r.scale.Factor] = r
	}
	if err := errors.Join(errs...); err != nil {
		return "", item, err
	}

	// Repeated base names go into a directory named after the source hash.
	dir := ""
	if written[src.BaseName] {
		dir = srcHash[:hashDirLen]
	}
	key := filepath.ToSlash(filepath.Join(dir, src.BaseName))
	if err := os.MkdirAll(filepath.Join(p.cfg.OutputDir, dir), 0o755); err != nil {
		return "", item, fmt.Errorf("create dir: %w", err)
	}

	for _, w := range workers {
		r := byScale[w.scale.Factor]
		relPath := key + w.scale.Suffix + r.output.Extension
		if err := os.WriteFile(filepath.Join(p.cfg.OutputDir, filepath.FromSlash(relPath)), r.output.Data, 0o644); err != nil {
			return "", item, fmt.Errorf("write %s: %w", relPath, err)
		}
		item.Outputs = append(item.Outputs, manifest.Output{
			Format:   strings.ToLower(w.format.Kind.String()),
			Scale:    w.scale.Factor,
			Width:    r.result.Width(),
			Height:   r.result.Height(),
			Colors:   r.result.Colors(),
			BitDepth: r.output.BitDepth,
			Size:     int64(len(r.output.Data)),
			Hash:     hasher.ContentHash(r.output.Data, 16),
			Path:     relPath,
		})
	}

	return key, item, nil
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[wirthmage] "+format+"\n", args...)
	}
}
