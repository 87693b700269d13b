package modelfile

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// rangeServer serves content honoring "bytes=S-" range requests and
// records the Range headers it saw.
func rangeServer(t *testing.T, content []byte, seenRanges *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rangeHeader := r.Header.Get("Range")
		*seenRanges = append(*seenRanges, rangeHeader)

		start := int64(0)
		if rangeHeader != "" {
			s := strings.TrimSuffix(strings.TrimPrefix(rangeHeader, "bytes="), "-")
			parsed, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				t.Errorf("malformed Range header %q", rangeHeader)
			}
			start = parsed
		}

		total := int64(len(content))
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, total-1, total))
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write(content[start:])
	}))
}

func TestEnsureFreshDownload(t *testing.T) {
	content := bytes.Repeat([]byte("examsort model bytes "), 100)
	var seen []string
	srv := rangeServer(t, content, &seen)
	defer srv.Close()

	local := filepath.Join(t.TempDir(), "model.bundle")
	d := NewDownloader(zap.NewNop())

	if err := d.Ensure(context.Background(), local, srv.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.ReadFile(local)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("downloaded content differs: %d bytes, want %d", len(got), len(content))
	}
	if len(seen) != 1 || seen[0] != "bytes=0-" {
		t.Errorf("Range headers = %v, want [bytes=0-]", seen)
	}
	if _, err := os.Stat(local + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should be renamed away on completion")
	}
}

// A partial temp file of size S must lead to a request for bytes [S, N)
// and a final file of exactly N bytes.
func TestEnsureResumesPartialDownload(t *testing.T) {
	content := bytes.Repeat([]byte("0123456789"), 50)
	var seen []string
	srv := rangeServer(t, content, &seen)
	defer srv.Close()

	local := filepath.Join(t.TempDir(), "model.bundle")
	partial := int64(123)
	if err := os.WriteFile(local+".tmp", content[:partial], 0o644); err != nil {
		t.Fatalf("seed partial file: %v", err)
	}

	d := NewDownloader(zap.NewNop())
	if err := d.Ensure(context.Background(), local, srv.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != 1 || seen[0] != "bytes=123-" {
		t.Errorf("Range headers = %v, want [bytes=123-]", seen)
	}

	got, err := os.ReadFile(local)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if int64(len(got)) != int64(len(content)) {
		t.Errorf("final size = %d, want %d", len(got), len(content))
	}
	if !bytes.Equal(got, content) {
		t.Error("resumed content differs from remote content")
	}
}

func TestEnsureNoOpWhenPresent(t *testing.T) {
	var seen []string
	srv := rangeServer(t, []byte("remote"), &seen)
	defer srv.Close()

	local := filepath.Join(t.TempDir(), "model.bundle")
	if err := os.WriteFile(local, []byte("cached"), 0o644); err != nil {
		t.Fatalf("seed local file: %v", err)
	}

	d := NewDownloader(zap.NewNop())
	if err := d.Ensure(context.Background(), local, srv.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != 0 {
		t.Errorf("expected no requests for a cached model, saw %v", seen)
	}
	got, _ := os.ReadFile(local)
	if string(got) != "cached" {
		t.Error("cached model file must be left untouched")
	}
}

func TestEnsurePropagatesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	local := filepath.Join(t.TempDir(), "model.bundle")
	d := NewDownloader(zap.NewNop())

	if err := d.Ensure(context.Background(), local, srv.URL); err == nil {
		t.Error("expected error for 404 response")
	}
	if _, err := os.Stat(local); !os.IsNotExist(err) {
		t.Error("no model file should exist after a failed download")
	}
}

func TestTotalFromContentRange(t *testing.T) {
	testCases := []struct {
		name     string
		header   string
		expected int64
		wantErr  bool
	}{
		{"Valid", "bytes 0-499/500", 500, false},
		{"ValidResume", "bytes 123-499/500", 500, false},
		{"Missing", "", 0, true},
		{"NoTotal", "bytes 0-499/", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := totalFromContentRange(tc.header)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tc.header)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("total = %d, want %d", got, tc.expected)
			}
		})
	}
}
