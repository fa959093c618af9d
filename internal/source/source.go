// Package source 获取作业模板文档：本地文件或 GitLab raw 下载。
package source

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/zeebo/blake3"
)

// ErrFetch 模板文档获取失败。
var ErrFetch = errors.New("fetch template")

// maxDocumentSize 远程文档大小上限。
const maxDocumentSize = 16 << 20

// Document 获取到的模板文档。
type Document struct {
	// Name 文件路径或下载 URL，其扩展名决定解析格式。
	Name string
	Data []byte
	// Digest 内容的 blake3 十六进制摘要。
	Digest string
}

func newDocument(name string, data []byte) *Document {
	sum := blake3.Sum256(data)

	return &Document{Name: name, Data: data, Digest: hex.EncodeToString(sum[:])}
}

// Source 模板文档来源。
type Source interface {
	Fetch(ctx context.Context) (*Document, error)
}

func loggerOr(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}

	return slog.Default()
}

// File 从本地文件读取模板。
type File struct {
	Path   string
	Logger *slog.Logger
}

// Fetch 实现 [Source]。
func (f File) Fetch(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := loggerOr(f.Logger)
	log.Info("Loading template from local file", "path", f.Path)
	data, err := os.ReadFile(f.Path) //nolint:gosec // path comes from trusted config
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	doc := newDocument(f.Path, data)
	log.Debug("Loaded template", "path", f.Path, "bytes", len(data), "digest", doc.Digest)

	return doc, nil
}

// HTTP 从 GitLab 仓库的 raw 接口下载模板：{BaseURL}/-/raw/{Commit}/{Path}。
type HTTP struct {
	BaseURL string
	Commit  string
	Path    string
	Timeout time.Duration
	Client  *http.Client
	Logger  *slog.Logger
}

// URL 返回完整下载地址。
func (h HTTP) URL() string {
	return strings.TrimRight(h.BaseURL, "/") + "/-/raw/" + h.Commit + "/" + strings.TrimLeft(h.Path, "/")
}

// Fetch 实现 [Source]。非 2xx 响应视为失败。
func (h HTTP) Fetch(ctx context.Context) (*Document, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	log := loggerOr(h.Logger)
	url := h.URL()
	log.Info("Downloading template", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrFetch, url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrFetch, url, err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrFetch, url, maxDocumentSize)
	}

	doc := newDocument(url, data)
	log.Debug("Loaded template", "url", url, "bytes", len(data), "digest", doc.Digest)

	return doc, nil
}
