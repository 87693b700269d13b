package classify

import "github.com/cloudflare/ahocorasick"

// ExamKeywords is the default substring set marking a file name as an
// examination paper: exam, test paper, volume/paper, exam questions, test.
var ExamKeywords = []string{"考试", "试卷", "卷", "试题", "试"}

// FilenameMatcher classifies by file name alone: any keyword substring
// match is a positive. No probability is produced in this mode.
type FilenameMatcher struct {
	matcher *ahocorasick.Matcher
}

func NewFilenameMatcher(keywords []string) *FilenameMatcher {
	if len(keywords) == 0 {
		keywords = ExamKeywords
	}
	return &FilenameMatcher{
		matcher: ahocorasick.NewStringMatcher(keywords),
	}
}

// Match reports whether fileName contains any of the keywords.
func (f *FilenameMatcher) Match(fileName string) bool {
	return len(f.matcher.MatchThreadSafe([]byte(fileName))) > 0
}
