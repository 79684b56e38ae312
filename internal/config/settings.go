package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// settingsFile 持久化设置的单一键名，对应一个 TOML 文件
const settingsFile = "settings.toml"

// Store 键值设置存储：在 get/set 单个配置 blob 的宿主接口之上，
// 离线 CLI 用用户目录下的 TOML 文件模拟。
type Store struct {
	dir string
}

// NewStore 创建设置存储，dir 为空时使用 ~/.config/linebreak-cleaner
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".config", "linebreak-cleaner")
	}
	return &Store{dir: dir}, nil
}

// Load 读取持久化设置并与默认值合并。文件缺失返回默认；
// 字段非法时逐字段回退默认而不是整体失败。
func (s *Store) Load() (*Processing, error) {
	path := filepath.Join(s.dir, settingsFile)

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to load settings %s: %w", path, err)
	}

	cfg.Normalize()
	return cfg, nil
}

// Save 把配置写回存储
func (s *Store) Save(cfg *Processing) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	path := filepath.Join(s.dir, settingsFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write settings %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return nil
}
