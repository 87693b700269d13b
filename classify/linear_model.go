package classify

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/daulet/tokenizers"
)

const (
	tokenizerEntry = "tokenizer.json"
	linearEntry    = "linear.json"
)

// linearParams is the exported logistic-regression head: one weight per
// tokenizer vocabulary ID plus a bias term.
type linearParams struct {
	Bias    float64            `json:"bias"`
	Weights map[uint32]float64 `json:"weights"`
}

// LinearModel scores text with a logistic regression over token-ID counts.
// The tokenizer and the weights ship together in the downloaded bundle.
type LinearModel struct {
	tokenizer *tokenizers.Tokenizer
	params    linearParams
}

// LoadLinearModel opens a model bundle: a zip archive holding
// tokenizer.json (HuggingFace tokenizer definition) and linear.json
// (weights and bias).
func LoadLinearModel(bundlePath string) (*LinearModel, error) {
	r, err := zip.OpenReader(bundlePath)
	if err != nil {
		return nil, fmt.Errorf("open model bundle: %w", err)
	}
	defer r.Close()

	var tokenizerData, linearData []byte
	for _, f := range r.File {
		switch f.Name {
		case tokenizerEntry:
			tokenizerData, err = readEntry(f)
		case linearEntry:
			linearData, err = readEntry(f)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
	}
	if tokenizerData == nil || linearData == nil {
		return nil, fmt.Errorf("model bundle %s is missing %s or %s", bundlePath, tokenizerEntry, linearEntry)
	}

	var params linearParams
	if err := json.Unmarshal(linearData, &params); err != nil {
		return nil, fmt.Errorf("parse linear head: %w", err)
	}

	tk, err := tokenizers.FromBytes(tokenizerData)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}

	return &LinearModel{tokenizer: tk, params: params}, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// PredictProba implements Classifier.
func (m *LinearModel) PredictProba(ctx context.Context, texts []string) ([]float64, error) {
	probs := make([]float64, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ids, _ := m.tokenizer.Encode(text, false)
		z := m.params.Bias
		for _, id := range ids {
			z += m.params.Weights[id]
		}
		probs[i] = sigmoid(z)
	}
	return probs, nil
}

func (m *LinearModel) Close() error {
	return m.tokenizer.Close()
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
