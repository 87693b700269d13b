package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"examsort/classify"
	"examsort/extract"
	"examsort/language"
	"examsort/state"
	"examsort/textnorm"
)

// FileSuffixes are the document extensions the batch considers.
var FileSuffixes = map[string]bool{".doc": true, ".docx": true}

// minModelTextLen is the shortest extracted text (in characters) the
// model is trusted with; anything shorter falls back to the filename
// heuristic.
const minModelTextLen = 50

// Runner drives one batch: discovery, per-file triage, mirrored copy and
// audit logging. Processing is strictly sequential.
type Runner struct {
	InputDir       string
	OutputDir      string
	Threshold      float64
	JustByFileName bool
	RunID          string

	Extractor  extract.TextExtractor
	Normalizer *textnorm.Normalizer
	Model      classify.Classifier // nil in filename-only mode
	Matcher    *classify.FilenameMatcher
	Logs       *AuditLogs
	Store      *state.Store // optional decision store
	Logger     *zap.Logger
}

// Run validates the directory pair and processes every discovered file.
// Per-file failures never abort the batch; only validation errors and
// context cancellation do.
func (r *Runner) Run(ctx context.Context) (RunStats, error) {
	var stats RunStats

	if err := r.validate(); err != nil {
		return stats, err
	}
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return stats, fmt.Errorf("create output directory: %w", err)
	}

	files, err := discover(r.InputDir)
	if err != nil {
		return stats, fmt.Errorf("walk input directory: %w", err)
	}
	stats.Total = len(files)
	r.Logger.Info("batch started",
		zap.Int("files", stats.Total),
		zap.String("input_dir", r.InputDir),
		zap.String("output_dir", r.OutputDir))

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			r.Logger.Warn("batch interrupted", zap.Int("position", i))
			return stats, err
		}
		r.processFile(ctx, path, &stats)
	}

	r.Logger.Info("batch finished",
		zap.Int("total", stats.Total),
		zap.Int("processed", stats.Processed),
		zap.Int("copied", stats.Copied),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed))
	return stats, nil
}

func (r *Runner) validate() error {
	info, err := os.Stat(r.InputDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("input directory does not exist: %s", r.InputDir)
	}

	in, err := filepath.Abs(r.InputDir)
	if err != nil {
		return err
	}
	out, err := filepath.Abs(r.OutputDir)
	if err != nil {
		return err
	}
	if in == out {
		return errors.New("input and output directories must differ")
	}
	return nil
}

// discover returns every regular file under root, sorted for a
// deterministic processing order.
func discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (r *Runner) processFile(ctx context.Context, path string, stats *RunStats) {
	ext := strings.ToLower(filepath.Ext(path))
	if !FileSuffixes[ext] {
		return
	}

	rel, err := filepath.Rel(r.InputDir, path)
	if err != nil {
		r.Logger.Error("cannot resolve relative path", zap.String("file", path), zap.Error(err))
		stats.Failed++
		return
	}
	targetPath := filepath.Join(r.OutputDir, rel)

	// Idempotent re-runs: a file already present at the mirrored output
	// location is not reprocessed.
	if _, err := os.Stat(targetPath); err == nil {
		stats.Skipped++
		return
	}

	if r.Store != nil {
		seen, err := r.Store.Seen(path)
		if err != nil {
			r.Logger.Error("state lookup failed", zap.String("file", path), zap.Error(err))
		} else if seen {
			stats.Skipped++
			return
		}
	}

	text, err := r.Extractor.ExtractText(path)
	if err != nil {
		// Corrupt files and unsupported encodings are skipped silently
		// per file, never fatal to the batch.
		r.Logger.Info("extraction failed, skipping", zap.String("file", path), zap.Error(err))
		stats.Failed++
		return
	}

	if language.Detect(text) != language.Chinese {
		stats.Skipped++
		return
	}

	if r.JustByFileName || len([]rune(text)) < minModelTextLen {
		r.classifyByFileName(path, targetPath, stats)
		return
	}
	r.classifyByModel(ctx, path, targetPath, text, stats)
}

// classifyByFileName applies the keyword heuristic. Positive matches log
// the target path to the filename log; the move log is never written in
// this mode and no probability is computed.
func (r *Runner) classifyByFileName(path, targetPath string, stats *RunStats) {
	stats.Processed++

	matched := r.Matcher.Match(filepath.Base(path))
	if matched {
		if err := r.Logs.WriteFileNameMatch(targetPath); err != nil {
			r.Logger.Error("file name log write failed", zap.Error(err))
		}
		if err := copyFile(path, targetPath); err != nil {
			r.Logger.Error("copy failed", zap.String("file", path), zap.Error(err))
			stats.Failed++
			return
		}
		stats.Copied++
		r.Logger.Info("copied by filename match",
			zap.String("file", path), zap.String("target", targetPath))
	}

	r.record(state.Decision{Path: path, Label: boolToLabel(matched), ByFileName: true})
}

// classifyByModel normalizes the text, runs a single-element inference
// batch, applies the threshold, and always writes one move-log line.
func (r *Runner) classifyByModel(ctx context.Context, path, targetPath, text string, stats *RunStats) {
	stats.Processed++

	normalized := r.Normalizer.Normalize(text)
	probs, err := r.Model.PredictProba(ctx, []string{normalized})
	if err != nil {
		r.Logger.Error("inference failed", zap.String("file", path), zap.Error(err))
		stats.Failed++
		return
	}

	probability := probs[0]
	label := classify.Decide(probability, r.Threshold)

	if label == 1 {
		if err := copyFile(path, targetPath); err != nil {
			r.Logger.Error("copy failed", zap.String("file", path), zap.Error(err))
			stats.Failed++
			return
		}
		stats.Copied++
		r.Logger.Info("copied by model decision",
			zap.String("file", path),
			zap.String("target", targetPath),
			zap.Float64("probability", probability))
	}

	if err := r.Logs.WriteMove(label, probability, path); err != nil {
		r.Logger.Error("move log write failed", zap.Error(err))
	}

	r.record(state.Decision{Path: path, Label: label, Probability: probability})
}

func (r *Runner) record(d state.Decision) {
	if r.Store == nil {
		return
	}
	d.RunID = r.RunID
	d.DecidedAt = time.Now()
	if err := r.Store.Record(d); err != nil {
		r.Logger.Error("state record failed", zap.String("file", d.Path), zap.Error(err))
	}
}

// copyFile creates the mirrored directory and copies the source byte for
// byte, preserving the original file name.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

func boolToLabel(b bool) int {
	if b {
		return 1
	}
	return 0
}
