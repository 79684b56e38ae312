package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/internal/config"
)

var (
	// 命令行标志变量
	cfgFile       string
	inputPath     string
	debugMode     bool
	minChars      int
	threshold     float64
	softBreaks    []string
	widthMult     float64
	detections    []string
	preserveLists bool
)

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "linebreak-cleaner",
		Short: "检测并清理固定宽度文本块中的多余换行",
		Long: `linebreak-cleaner 对文档导出中的文本块做换行体检：
区分作者有意的段落换行和宽度限制产生的附带换行，
安全地重写日文/拉丁文混排文本。`,
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "配置文件路径（默认查找 ~/.linebreak-cleaner.yaml）")
	flags.StringVarP(&inputPath, "input", "i", "", "文档导出 JSON 文件")
	flags.BoolVar(&debugMode, "debug", false, "输出调试日志")
	flags.IntVar(&minChars, "min-chars", 0, "低于该字符数的文本块跳过")
	flags.Float64Var(&threshold, "threshold", 0, "行宽/容器宽比值阈值 (0,1]")
	flags.StringSliceVar(&softBreaks, "soft-breaks", nil, "软换行码点（U+2028 记法或字面字符）")
	flags.Float64Var(&widthMult, "width-multiplier", 0, "宽度估算缩放系数")
	flags.StringSliceVar(&detections, "detections", nil, "启用的检测项 (auto_width,edge_break,soft_break)")
	flags.BoolVar(&preserveLists, "preserve-list-lines", false, "下一行是列表项或大写开头时保留换行")

	rootCmd.AddCommand(newScanCommand())
	rootCmd.AddCommand(newApplyCommand())
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}

// loadConfig 加载配置并叠加命令行覆盖
func loadConfig() (*config.Processing, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if minChars > 0 {
		cfg.MinCharacters = minChars
	}
	if threshold > 0 {
		cfg.LineBreakThreshold = threshold
	}
	if len(softBreaks) > 0 {
		cfg.SoftBreakChars = softBreaks
	}
	if widthMult > 0 {
		cfg.FontWidthMultiplier = widthMult
	}
	if len(detections) > 0 {
		cfg.EnabledDetections = detections
	}
	if preserveLists {
		cfg.PreserveListLines = true
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
