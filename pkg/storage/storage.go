package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AzuraDhar/goldPanicles-sub000/config"
)

// Store 本地附件存储
// 保存路径约定: client-requests/{YYYY}/{MM}/{DD}/{timestamp}_{random}_{filename}
// 返回的公开 URL 作为申请记录的持久附件引用
type Store struct {
	rootDir string
	baseURL string
	logger  *zap.Logger
}

const attachmentPrefix = "client-requests"

// NewStore 创建附件存储并确保根目录存在
func NewStore(cfg *config.StorageConfig, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.RootDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建附件根目录失败: %w", err)
	}

	return &Store{
		rootDir: cfg.RootDir,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:  logger,
	}, nil
}

// RootDir 附件根目录（用于静态文件路由挂载）
func (s *Store) RootDir() string { return s.rootDir }

// Save 保存一个附件，返回其公开 URL
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	now := time.Now()
	rel := path.Join(
		attachmentPrefix,
		now.Format("2006"),
		now.Format("01"),
		now.Format("02"),
		fmt.Sprintf("%d_%s_%s", now.UnixMilli(), randomSuffix(), sanitizeFilename(filename)),
	)

	dst := filepath.Join(s.rootDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("创建附件目录失败: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("创建附件文件失败: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("写入附件失败: %w", err)
	}

	s.logger.Info("附件已保存",
		zap.String("path", rel),
		zap.Int64("size", n),
	)

	return s.baseURL + "/" + rel, nil
}

// randomSuffix 生成 8 位十六进制随机串，避免同名文件冲突
func randomSuffix() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%08x", time.Now().UnixNano()&0xffffffff)
	}
	return hex.EncodeToString(b)
}

// sanitizeFilename 去除路径分隔符等危险字符，限制长度
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		name = "attachment"
	}
	if len(name) > 120 {
		name = name[len(name)-120:]
	}
	return name
}
