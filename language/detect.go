package language

// Label is the detected language of a text.
type Label string

const (
	Chinese Label = "Chinese"
	English Label = "English"
	Unknown Label = "Unknown"
)

// Detect labels a text by counting CJK Unified Ideographs (U+4E00-U+9FFF)
// against ASCII letters. The strictly larger count wins; a tie is Unknown.
func Detect(text string) Label {
	var chinese, english int
	for _, r := range text {
		switch {
		case r >= 0x4E00 && r <= 0x9FFF:
			chinese++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			english++
		}
	}

	switch {
	case chinese > english:
		return Chinese
	case english > chinese:
		return English
	default:
		return Unknown
	}
}
