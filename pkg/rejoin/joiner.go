package rejoin

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/internal/config"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/textwidth"
)

// sentenceFinal 句末标点。以这些字符结尾的行是完整的句子边界，
// 换行一律保留。
var sentenceFinal = map[rune]bool{
	'。': true, '．': true, '！': true, '？': true,
	'.': true, '!': true, '?': true,
}

// Joiner 把硬换行分隔的行按脚本感知的规则重新合并。
// 软换行在这里不处理，由 ConvertSoftBreaks 独立负责。
type Joiner struct {
	estimator *textwidth.Estimator
}

func NewJoiner(estimator *textwidth.Estimator) *Joiner {
	return &Joiner{estimator: estimator}
}

// Rejoin 重写 text，移除疑似由宽度限制产生的硬换行。
// ignoreMinChars 供手动调用跳过最小字符数保护。
func (j *Joiner) Rejoin(text string, containerWidth, fontSize float64, cfg *config.Processing, ignoreMinChars bool) string {
	if !ignoreMinChars && uniseg.GraphemeClusterCount(text) < cfg.MinCharacters {
		return text
	}
	if containerWidth <= 0 {
		return text
	}

	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return text
	}

	// 单趟从左到右判定每行之后的换行去留
	breakAfter := make([]bool, len(lines))
	for i := range lines {
		breakAfter[i] = j.keepBreak(lines, i, containerWidth, fontSize, cfg)
	}

	var out []string
	acc := lines[0]
	for i := 0; i < len(lines); i++ {
		if breakAfter[i] {
			out = append(out, acc)
			if i+1 < len(lines) {
				acc = lines[i+1]
			}
			continue
		}
		acc = CombineLines(acc, lines[i+1])
	}
	return strings.Join(out, "\n")
}

// keepBreak 判定第 i 行之后的换行是否保留。
// 宽到接近容器的行被视为布局强制折行，与下一行合并；
// 明显偏窄的行视为作者有意换行。
func (j *Joiner) keepBreak(lines []string, i int, containerWidth, fontSize float64, cfg *config.Processing) bool {
	// 末行总是结束整段文本
	if i == len(lines)-1 {
		return true
	}

	trimmed := strings.TrimSpace(lines[i])
	if r, ok := lastRune(trimmed); ok && sentenceFinal[r] {
		return true
	}

	// 严格模式：下一行以列表符号或大写字母开头时不合并
	if cfg.PreserveListLines && looksStructural(lines[i+1]) {
		return true
	}

	ratio := 0.0
	if trimmed != "" {
		ratio = j.estimator.EstimateWidth(trimmed, fontSize) / containerWidth
	}
	return ratio < cfg.LineBreakThreshold
}

// CombineLines 合并相邻两行：右剪 a、左剪 b；任一侧为空原样拼接
// （保留空行语义）；两侧相接处都是 CJK 时直接相连，否则补一个空格。
func CombineLines(a, b string) string {
	a = strings.TrimRight(a, " \t")
	b = strings.TrimLeft(b, " \t")
	if a == "" || b == "" {
		return a + b
	}

	last, _ := lastRune(a)
	first, _ := firstRune(b)
	if textwidth.IsCJK(last) && textwidth.IsCJK(first) {
		return a + b
	}
	return a + " " + b
}

// looksStructural 下一行看起来像列表项或新句子的开头
func looksStructural(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return false
	}

	first, _ := firstRune(trimmed)
	switch first {
	case '-', '*', '・', '•', '●', '‣', '◦':
		return true
	}
	if unicode.IsUpper(first) {
		return true
	}
	// "1. "、"2) " 之类的编号列表
	if unicode.IsDigit(first) {
		rest := strings.TrimLeft(trimmed, "0123456789")
		return strings.HasPrefix(rest, ".") || strings.HasPrefix(rest, ")")
	}
	return false
}

func lastRune(s string) (rune, bool) {
	var r rune
	found := false
	for _, c := range s {
		r = c
		found = true
	}
	return r, found
}

func firstRune(s string) (rune, bool) {
	for _, c := range s {
		return c, true
	}
	return 0, false
}
