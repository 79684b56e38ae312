package wrap

import (
	"unicode"

	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/textwidth"
)

// VisualLine 换行模拟产生的一行。Index 是阅读顺序中的行号，
// 仅在一次检测/合并调用内有效。
type VisualLine struct {
	Text  string
	Index int
}

// Simulator 重现宿主布局引擎的视觉换行。模拟结果与文本里已有的
// 显式换行无关——这正是检测器区分"内容本来就短"和"容器宽度
// 强制折行"的关键能力。
type Simulator struct {
	estimator *textwidth.Estimator
	patterns  *PatternCache
}

func NewSimulator(estimator *textwidth.Estimator, patterns *PatternCache) *Simulator {
	return &Simulator{estimator: estimator, patterns: patterns}
}

// Simulate 返回 text 在 containerWidth 像素宽的容器中按 fontSize
// 渲染时的视觉行序列。
func (s *Simulator) Simulate(text string, containerWidth, fontSize float64, softBreaks []rune) []VisualLine {
	var lines []VisualLine
	for _, para := range s.patterns.SplitParagraphs(text, softBreaks) {
		for _, line := range s.wrapParagraph(para, containerWidth, fontSize) {
			lines = append(lines, VisualLine{Text: line, Index: len(lines)})
		}
	}
	return lines
}

// wrapParagraph 对单个段落做贪心填行。空段落产生一个空行，
// 保留原文的空行数量。
func (s *Simulator) wrapParagraph(para string, containerWidth, fontSize float64) []string {
	if para == "" {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, token := range tokenize(para) {
		candidate := current + token
		// 行尚为空时无条件接收，超宽的单词不会卡死循环
		if current == "" || s.estimator.EstimateWidth(candidate, fontSize) <= containerWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = token
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// tokenize 把段落切成交替的单词/空白 token。空白保留为独立
// token，不会被悄悄丢掉。CJK 字符逐个成为 token：布局引擎在
// CJK 文本中任意字符间都可以折行。
func tokenize(para string) []string {
	var tokens []string
	runes := []rune(para)

	start := 0
	for i := 0; i <= len(runes); i++ {
		if i == len(runes) {
			if i > start {
				tokens = append(tokens, string(runes[start:i]))
			}
			break
		}
		if textwidth.IsCJK(runes[i]) {
			if i > start {
				tokens = append(tokens, string(runes[start:i]))
			}
			tokens = append(tokens, string(runes[i]))
			start = i + 1
			continue
		}
		if i > start && unicode.IsSpace(runes[i]) != unicode.IsSpace(runes[start]) {
			tokens = append(tokens, string(runes[start:i]))
			start = i
		}
	}
	return tokens
}
