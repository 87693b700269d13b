package modelfile

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Downloader fetches the model artifact with byte-range resume. Partial
// progress lives in a ".tmp" sibling file that is renamed into place only
// once the full artifact has arrived.
type Downloader struct {
	client *http.Client
	logger *zap.Logger
}

func NewDownloader(logger *zap.Logger) *Downloader {
	return &Downloader{
		client: &http.Client{Timeout: 30 * time.Minute},
		logger: logger,
	}
}

// Ensure makes sure localPath exists, downloading it from url if needed.
// An already-present file is left untouched. Any network or IO failure is
// returned to the caller; the temp file survives for the next attempt.
func (d *Downloader) Ensure(ctx context.Context, localPath, url string) error {
	if _, err := os.Stat(localPath); err == nil {
		return nil
	}

	tempPath := localPath + ".tmp"
	var initial int64
	if info, err := os.Stat(tempPath); err == nil {
		initial = info.Size()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build model request: %w", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-", initial))

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("request model: %w", err)
	}
	defer resp.Body.Close()

	var totalSize int64
	flags := os.O_WRONLY | os.O_CREATE | os.O_APPEND

	switch resp.StatusCode {
	case http.StatusPartialContent:
		totalSize, err = totalFromContentRange(resp.Header.Get("Content-Range"))
		if err != nil {
			return err
		}
	case http.StatusOK:
		// Server ignored the range request; restart from zero.
		initial = 0
		totalSize = resp.ContentLength
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	default:
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	f, err := os.OpenFile(tempPath, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open temp model file: %w", err)
	}

	if initial > 0 {
		d.logger.Info("resuming model download",
			zap.String("url", url), zap.Int64("offset", initial), zap.Int64("total", totalSize))
	}

	bar := progressbar.DefaultBytes(totalSize, "downloading model")
	_ = bar.Add64(initial)

	written, copyErr := io.Copy(io.MultiWriter(f, bar), resp.Body)
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp model file: %w", err)
	}
	if copyErr != nil {
		return fmt.Errorf("stream model: %w", copyErr)
	}

	if totalSize > 0 && initial+written != totalSize {
		return fmt.Errorf("incomplete download: have %d of %d bytes", initial+written, totalSize)
	}

	if err := os.Rename(tempPath, localPath); err != nil {
		return fmt.Errorf("finalize model file: %w", err)
	}

	d.logger.Info("model downloaded",
		zap.String("path", localPath), zap.Int64("bytes", initial+written))
	return nil
}

// totalFromContentRange parses the total size out of a "bytes S-E/N" header.
func totalFromContentRange(header string) (int64, error) {
	idx := strings.LastIndex(header, "/")
	if idx < 0 || idx == len(header)-1 {
		return 0, fmt.Errorf("missing or malformed Content-Range %q", header)
	}
	return strconv.ParseInt(header[idx+1:], 10, 64)
}
