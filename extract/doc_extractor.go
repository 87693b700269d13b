package extract

import (
	"fmt"

	"code.sajari.com/docconv"
)

// DocExtractor handles legacy binary .doc files by delegating to the
// generic docconv converter. The result is UTF-8 plain text.
type DocExtractor struct{}

func NewDocExtractor() *DocExtractor {
	return &DocExtractor{}
}

func (e *DocExtractor) ExtractText(path string) (string, error) {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return "", fmt.Errorf("convert doc: %w", err)
	}
	return res.Body, nil
}
