package extract

// TextExtractor pulls the plain text out of one document file.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}
