// 包 ingest：公开数据集（地名目录、省界 GeoJSON）的下载与定期刷新，作为离线数据通道
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"commonyouth/internal/logger"
	"commonyouth/internal/validate"
)

// MaxBytes：单个数据集的下载上限
const MaxBytes = 128 << 20

var ErrTooLarge = errors.New("ingest: dataset exceeds size limit")

// FileName：由下载地址推出本地文件名（取路径最后一段并清理）
func FileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return validate.SanitizeFileName("")
	}
	return validate.SanitizeFileName(path.Base(u.Path))
}

// 文档注释：下载数据集到 dst
// 背景：先写同目录临时文件，校验通过后再原子替换，服务进程读到的始终是完整文件。
// 约束：非 200 视为失败；check 非 nil 时对完整内容做校验（如解析 JSON），失败不替换旧文件；不做重试。
func Download(ctx context.Context, client *http.Client, srcURL, dst string, check func([]byte) error) (int64, error) {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	logger.L().Info("ingest_start", "src", srcURL, "dst", dst)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("ingest: bad status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxBytes+1))
	if err != nil {
		return 0, err
	}
	if len(b) > MaxBytes {
		return 0, ErrTooLarge
	}
	if check != nil {
		if err := check(b); err != nil {
			return 0, fmt.Errorf("ingest: validate %s: %w", srcURL, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".ingest-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return 0, err
	}
	logger.L().Info("ingest_done", "dst", dst, "bytes", len(b))
	return int64(len(b)), nil
}

// Dataset：一个下载任务
type Dataset struct {
	Name  string
	URL   string
	Path  string
	Check func([]byte) error
}

// FetchAll：依次下载；Path 以 / 结尾时视为目录，文件名取自 URL；单个失败不影响其余，返回合并后的错误
func FetchAll(ctx context.Context, client *http.Client, sets []Dataset) error {
	var errs []error
	for _, d := range sets {
		if d.URL == "" || d.Path == "" {
			continue
		}
		if strings.HasSuffix(d.Path, "/") {
			d.Path = filepath.Join(d.Path, FileName(d.URL))
		}
		if _, err := Download(ctx, client, d.URL, d.Path, d.Check); err != nil {
			logger.L().Error("ingest_dataset_error", "name", d.Name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", d.Name, err))
		}
	}
	return errors.Join(errs...)
}
