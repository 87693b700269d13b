package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Dispatcher routes a file to the extractor registered for its extension.
type Dispatcher struct {
	byExt map[string]TextExtractor
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		byExt: map[string]TextExtractor{
			".docx": NewDocxExtractor(),
			".doc":  NewDocExtractor(),
		},
	}
}

func (d *Dispatcher) ExtractText(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	extractor, ok := d.byExt[ext]
	if !ok {
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
	return extractor.ExtractText(path)
}
