package pipeline

// RunStats tracks aggregate counters across one batch run.
type RunStats struct {
	Total     int // files discovered under the input root
	Processed int // files that reached classification
	Copied    int // positive decisions copied to the output tree
	Skipped   int // wrong language, already-copied, or already-decided files
	Failed    int // extraction, inference, or copy failures
}
