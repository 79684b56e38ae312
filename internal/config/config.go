package config

import (
	"fmt"
	"strconv"
	"strings"
)

// 检测项开关名。与 Issue 类型一一对应。
const (
	DetectionAutoWidth = "auto_width"
	DetectionEdgeBreak = "edge_break"
	DetectionSoftBreak = "soft_break"
)

// Processing 保存一次分析/应用运行的全部参数，运行期间不可变。
// 核心算法不做参数校验，非法值在这里被拒绝或钳制。
type Processing struct {
	// MinCharacters 低于该字符数的节点直接跳过（按 grapheme 计数）
	MinCharacters int `mapstructure:"min_characters" toml:"min_characters"`

	// LineBreakThreshold 行宽与容器宽的比值阈值，取值 (0,1]。
	// 比值达到阈值的行被视为因宽度限制产生的换行。
	LineBreakThreshold float64 `mapstructure:"line_break_threshold" toml:"line_break_threshold"`

	// SoftBreakChars 被视为软换行的码点，可写字面字符或 U+XXXX 记法
	SoftBreakChars []string `mapstructure:"soft_break_chars" toml:"soft_break_chars"`

	// FontWidthMultiplier 宽度估算的整体缩放系数
	FontWidthMultiplier float64 `mapstructure:"font_width_multiplier" toml:"font_width_multiplier"`

	// EnabledDetections 启用的检测项集合
	EnabledDetections []string `mapstructure:"enabled_detections" toml:"enabled_detections"`

	// PreserveListLines 严格模式：下一行以列表符号或大写字母开头时
	// 保留换行
	PreserveListLines bool `mapstructure:"preserve_list_lines" toml:"preserve_list_lines"`

	// AnalyzeChunkSize / ApplyChunkSize 批处理分块大小。apply 分块
	// 更小，因为应用阶段可能等待异步字体加载。
	AnalyzeChunkSize int `mapstructure:"analyze_chunk_size" toml:"analyze_chunk_size"`
	ApplyChunkSize   int `mapstructure:"apply_chunk_size" toml:"apply_chunk_size"`
}

// Default 返回默认配置
func Default() *Processing {
	return &Processing{
		MinCharacters:       20,
		LineBreakThreshold:  0.85,
		SoftBreakChars:      []string{"U+2028", "U+2029"},
		FontWidthMultiplier: 1.0,
		EnabledDetections:   []string{DetectionAutoWidth, DetectionEdgeBreak, DetectionSoftBreak},
		AnalyzeChunkSize:    20,
		ApplyChunkSize:      10,
	}
}

// Normalize 用默认值补齐缺失或非法的字段。未知字段由 viper 忽略，
// 非法值回退到默认而不是让加载失败。
func (p *Processing) Normalize() {
	def := Default()

	if p.MinCharacters < 0 {
		p.MinCharacters = def.MinCharacters
	}
	if p.LineBreakThreshold <= 0 || p.LineBreakThreshold > 1 {
		p.LineBreakThreshold = def.LineBreakThreshold
	}
	if p.FontWidthMultiplier <= 0 {
		p.FontWidthMultiplier = def.FontWidthMultiplier
	}
	if len(p.EnabledDetections) == 0 {
		p.EnabledDetections = def.EnabledDetections
	}
	if p.AnalyzeChunkSize <= 0 {
		p.AnalyzeChunkSize = def.AnalyzeChunkSize
	}
	if p.ApplyChunkSize <= 0 {
		p.ApplyChunkSize = def.ApplyChunkSize
	}
}

// DetectionEnabled 判断某个检测项是否启用
func (p *Processing) DetectionEnabled(name string) bool {
	for _, d := range p.EnabledDetections {
		if strings.EqualFold(d, name) {
			return true
		}
	}
	return false
}

// SoftBreakRunes 把配置的软换行字符解析为码点集合。
// 支持 "U+2028" 记法和字面字符；硬换行本身不算软换行。
func (p *Processing) SoftBreakRunes() []rune {
	seen := make(map[rune]bool)
	var runes []rune
	for _, entry := range p.SoftBreakChars {
		for _, r := range parseSoftBreakEntry(entry) {
			if r == '\n' || seen[r] {
				continue
			}
			seen[r] = true
			runes = append(runes, r)
		}
	}
	return runes
}

func parseSoftBreakEntry(entry string) []rune {
	trimmed := strings.TrimSpace(entry)
	upper := strings.ToUpper(trimmed)
	if strings.HasPrefix(upper, "U+") {
		if code, err := strconv.ParseUint(upper[2:], 16, 32); err == nil {
			return []rune{rune(code)}
		}
	}
	return []rune(trimmed)
}

// Validate 检查配置在 Normalize 之后仍然自洽
func (p *Processing) Validate() error {
	if p.LineBreakThreshold <= 0 || p.LineBreakThreshold > 1 {
		return fmt.Errorf("line_break_threshold must be in (0,1], got %v", p.LineBreakThreshold)
	}
	for _, d := range p.EnabledDetections {
		switch strings.ToLower(d) {
		case DetectionAutoWidth, DetectionEdgeBreak, DetectionSoftBreak:
		default:
			return fmt.Errorf("unknown detection %q", d)
		}
	}
	return nil
}
