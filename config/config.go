package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults for the model artifact and the audit logs (working directory).
const (
	DefaultModelURL  = "https://huggingface.co/datasets/ranWang/test_paper_textClassifier/resolve/main/text-classifier-linear.bundle"
	DefaultModelFile = "text_classifier.bundle"
	DefaultThreshold = 0.5

	DefaultMoveLog     = "move_log.log"
	DefaultFileNameLog = "file_name_classification.log"
)

type Config struct {
	InputDir  string
	OutputDir string

	ModelURL  string
	ModelFile string
	Threshold float64

	// JustByFileName skips model loading entirely and classifies purely
	// by filename keyword match.
	JustByFileName bool

	// CorrectedNoise switches text normalization from the legacy
	// per-letter noise stripping to whole-word stripping.
	CorrectedNoise bool

	KeywordsFile string
	StateDB      string

	MoveLogPath     string
	FileNameLogPath string
}

// ParseFlags parses command-line arguments into a Config.
func ParseFlags(args []string) (*Config, error) {
	cfg := &Config{
		ModelURL:        DefaultModelURL,
		ModelFile:       DefaultModelFile,
		Threshold:       DefaultThreshold,
		MoveLogPath:     DefaultMoveLog,
		FileNameLogPath: DefaultFileNameLog,
	}

	fs := flag.NewFlagSet("examsort", flag.ContinueOnError)
	fs.StringVar(&cfg.InputDir, "input_dir", "", "root directory to scan (required)")
	fs.StringVar(&cfg.OutputDir, "output_dir", "", "root directory to mirror accepted files into (required)")
	fs.StringVar(&cfg.ModelURL, "model_url", cfg.ModelURL, "download URL for the classifier bundle")
	fs.StringVar(&cfg.ModelFile, "model_file", cfg.ModelFile, "local cache file for the classifier bundle")
	fs.Float64Var(&cfg.Threshold, "threshold", cfg.Threshold, "decision cutoff on the positive-class probability")
	justByFileName := fs.Int("just_by_file_name", 0, "classify purely by filename keywords, no model (0/1)")
	correctedNoise := fs.Int("corrected_noise", 0, "strip noise words whole instead of the legacy per-letter mode (0/1)")
	fs.StringVar(&cfg.KeywordsFile, "keywords_file", "", "optional YAML file overriding the exam keyword set")
	fs.StringVar(&cfg.StateDB, "state_db", "", "optional decision store for resuming interrupted runs")
	fs.StringVar(&cfg.MoveLogPath, "move_log", cfg.MoveLogPath, "path of the model-decision audit log")
	fs.StringVar(&cfg.FileNameLogPath, "file_name_log", cfg.FileNameLogPath, "path of the filename-match audit log")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.JustByFileName = *justByFileName != 0
	cfg.CorrectedNoise = *correctedNoise != 0
	return cfg, nil
}

// Validate checks the directory arguments before any processing starts.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return errors.New("input_dir is required")
	}
	if c.OutputDir == "" {
		return errors.New("output_dir is required")
	}

	info, err := os.Stat(c.InputDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("input directory does not exist: %s", c.InputDir)
	}

	in, err := filepath.Abs(c.InputDir)
	if err != nil {
		return err
	}
	out, err := filepath.Abs(c.OutputDir)
	if err != nil {
		return err
	}
	if in == out {
		return errors.New("input and output directories must differ")
	}
	return nil
}

type keywordsFile struct {
	Keywords []string `yaml:"keywords"`
}

// LoadKeywords reads a YAML keyword list used by the filename heuristic.
func LoadKeywords(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords file: %w", err)
	}

	var kf keywordsFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse keywords file: %w", err)
	}
	if len(kf.Keywords) == 0 {
		return nil, fmt.Errorf("keywords file %s lists no keywords", path)
	}
	return kf.Keywords, nil
}
