package config

import (
	"os"

	"github.com/spf13/viper"
)

// Load 加载配置文件。查找顺序：显式路径 → $HOME → 当前目录。
// 文件不存在时返回默认配置；已知字段非法时回退到默认值，
// 未知字段直接忽略，加载本身不会因此失败。
func Load(configPath string) (*Processing, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".linebreak-cleaner")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return Default(), nil
		}
		// 显式指定的文件不存在同样回退到默认
		if configPath != "" && os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
