// Package backup 提供数据库备份与恢复功能。
//
// 备份通过 mongodump 生成 gzip 归档文件写入本地备份目录，
// 可选同步上传到 MinIO；恢复通过 mongorestore --drop 执行，
// 归档本地不存在时尝试从 MinIO 拉取。
package backup

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/containerd/errdefs"

	"todo-admin/internal/config"
	"todo-admin/internal/shared/objstore"
)

const (
	archivePrefix = "todo-backup-"
	archiveSuffix = ".tar.gz"
)

// Info 一次备份的元信息
type Info struct {
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// MetricsRecorder 备份指标上报接口
type MetricsRecorder interface {
	RecordBackup(result string, duration time.Duration)
}

// Service 备份服务
type Service struct {
	mongoURI string
	mongoDB  string
	dir      string
	keep     int
	obj      *objstore.Client // 可为 nil，表示未配置对象存储
	metrics  MetricsRecorder  // 可为 nil
}

// SetMetrics 设置指标上报器
func (s *Service) SetMetrics(m MetricsRecorder) {
	s.metrics = m
}

// NewService 创建备份服务，obj 为 nil 时仅使用本地目录
func NewService(cfg *config.Config, obj *objstore.Client) *Service {
	return &Service{
		mongoURI: cfg.MongoURI,
		mongoDB:  cfg.MongoDB,
		dir:      cfg.Backup.Dir,
		keep:     cfg.Backup.Keep,
		obj:      obj,
	}
}

// Create 执行一次备份：mongodump 归档，上传对象存储（如配置），清理过期备份
func (s *Service) Create(ctx context.Context) (*Info, error) {
	start := time.Now()
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	filename := archiveName(start.UTC())
	path := filepath.Join(s.dir, filename)

	cmd := exec.CommandContext(ctx, "mongodump",
		"--uri="+s.mongoURI,
		"--db="+s.mongoDB,
		"--archive="+path,
		"--gzip",
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		os.Remove(path)
		s.record("error", start)
		return nil, fmt.Errorf("mongodump failed: %w, 输出: %s", err, string(output))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}
	log.Printf("[backup] Created archive %s (%d bytes)", filename, info.Size())

	if s.obj != nil {
		if err := s.obj.UploadFile(ctx, filename, path); err != nil {
			// 上传失败不影响本地备份结果
			log.Printf("[backup] Upload %s failed: %v", filename, err)
		} else {
			log.Printf("[backup] Uploaded archive %s", filename)
		}
	}

	if err := s.DeleteOld(); err != nil {
		log.Printf("[backup] Cleanup failed: %v", err)
	}

	s.record("success", start)
	return &Info{Filename: filename, Size: info.Size(), CreatedAt: info.ModTime().UTC()}, nil
}

func (s *Service) record(result string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordBackup(result, time.Since(start))
	}
}

// List 列出本地备份归档，按创建时间从新到旧排序
func (s *Service) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	infos := make([]Info, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isArchiveName(e.Name()) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			Filename:  e.Name(),
			Size:      fi.Size(),
			CreatedAt: fi.ModTime().UTC(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.After(infos[j].CreatedAt)
		}
		// 时间戳编码在文件名里，同秒时按文件名倒序兜底
		return infos[i].Filename > infos[j].Filename
	})
	return infos, nil
}

// Restore 从指定归档恢复数据库，--drop 会先清空现有集合
func (s *Service) Restore(ctx context.Context, filename string) error {
	if !isArchiveName(filename) {
		return fmt.Errorf("%w: invalid backup filename", errdefs.ErrInvalidArgument)
	}

	path := filepath.Join(s.dir, filename)
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("stat archive: %w", err)
		}
		if err := s.fetchFromBucket(ctx, filename, path); err != nil {
			return err
		}
	}

	cmd := exec.CommandContext(ctx, "mongorestore",
		"--uri="+s.mongoURI,
		"--archive="+path,
		"--gzip",
		"--drop",
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("mongorestore failed: %w, 输出: %s", err, string(output))
	}
	log.Printf("[backup] Restored from archive %s", filename)
	return nil
}

// DeleteOld 删除最旧的备份，只保留最近 keep 份
func (s *Service) DeleteOld() error {
	infos, err := s.List()
	if err != nil {
		return err
	}
	if s.keep <= 0 || len(infos) <= s.keep {
		return nil
	}
	for _, old := range infos[s.keep:] {
		if err := os.Remove(filepath.Join(s.dir, old.Filename)); err != nil {
			return fmt.Errorf("remove %s: %w", old.Filename, err)
		}
		log.Printf("[backup] Removed old archive %s", old.Filename)
	}
	return nil
}

// fetchFromBucket 本地缺失时从对象存储拉取归档
func (s *Service) fetchFromBucket(ctx context.Context, filename, path string) error {
	if s.obj == nil {
		return fmt.Errorf("%w: backup %s", errdefs.ErrNotFound, filename)
	}
	exists, err := s.obj.Exists(ctx, filename)
	if err != nil {
		return fmt.Errorf("check remote archive: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: backup %s", errdefs.ErrNotFound, filename)
	}

	rc, err := s.obj.Download(ctx, filename)
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}
	defer rc.Close()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, rc); err != nil {
		os.Remove(path)
		return fmt.Errorf("write archive: %w", err)
	}
	log.Printf("[backup] Fetched archive %s from bucket", filename)
	return nil
}

// archiveName 生成归档文件名，时间戳中的冒号和点替换为连字符
func archiveName(t time.Time) string {
	ts := strings.NewReplacer(":", "-", ".", "-").Replace(t.Format(time.RFC3339))
	return archivePrefix + ts + archiveSuffix
}

// isArchiveName 校验文件名为本服务生成的归档，拒绝路径穿越
func isArchiveName(name string) bool {
	if !strings.HasPrefix(name, archivePrefix) || !strings.HasSuffix(name, archiveSuffix) {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return filepath.Base(name) == name
}
