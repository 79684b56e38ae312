package cli

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/internal/config"
)

var settingsDir string

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "查看或持久化当前配置",
	}
	cmd.PersistentFlags().StringVar(&settingsDir, "settings-dir", "", "设置存储目录（默认 ~/.config/linebreak-cleaner）")

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "显示生效的配置（文件 + 命令行覆盖）",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return toml.NewEncoder(os.Stdout).Encode(cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "把生效的配置写入设置存储",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := config.NewStore(settingsDir)
			if err != nil {
				return err
			}
			if err := store.Save(cfg); err != nil {
				return err
			}
			color.Green("settings saved")
			return nil
		},
	})

	return cmd
}
