package pipeline

import (
	"fmt"
	"os"
)

// AuditLogs are the two append-only decision logs. They are opened once
// at batch start and closed at batch end; lines are whitespace-separated
// plain text with no rotation.
type AuditLogs struct {
	moveLog     *os.File
	fileNameLog *os.File
}

func OpenAuditLogs(moveLogPath, fileNameLogPath string) (*AuditLogs, error) {
	moveLog, err := os.OpenFile(moveLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open move log: %w", err)
	}
	fileNameLog, err := os.OpenFile(fileNameLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		moveLog.Close()
		return nil, fmt.Errorf("open file name log: %w", err)
	}
	return &AuditLogs{moveLog: moveLog, fileNameLog: fileNameLog}, nil
}

// WriteMove records one model-mode decision: label, positive-class
// probability and source path. Written for every model-classified file,
// copied or not.
func (a *AuditLogs) WriteMove(label int, probability float64, sourcePath string) error {
	_, err := fmt.Fprintf(a.moveLog, "%d %g %s\n", label, probability, sourcePath)
	return err
}

// WriteFileNameMatch records a positive filename-heuristic match by its
// target path. Negative heuristic decisions are not logged.
func (a *AuditLogs) WriteFileNameMatch(targetPath string) error {
	_, err := fmt.Fprintf(a.fileNameLog, "%s\n", targetPath)
	return err
}

func (a *AuditLogs) Close() error {
	err := a.moveLog.Close()
	if cerr := a.fileNameLog.Close(); err == nil {
		err = cerr
	}
	return err
}
