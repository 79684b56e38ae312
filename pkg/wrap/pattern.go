package wrap

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// maxPatternEntries 断行模式缓存上限
const maxPatternEntries = 10

// PatternCache 按软换行集合缓存编译好的断行匹配器。
// 匹配器识别硬换行加全部配置的软换行，用于把文本切成段落。
type PatternCache struct {
	patterns map[string]*regexp2.Regexp
	order    []string
}

func NewPatternCache() *PatternCache {
	return &PatternCache{
		patterns: make(map[string]*regexp2.Regexp, maxPatternEntries),
	}
}

// Matcher 返回识别硬换行与 softBreaks 中所有码点的正则。
// 配置的软换行可能携带正则元字符，逐个转义后再拼接。
func (c *PatternCache) Matcher(softBreaks []rune) *regexp2.Regexp {
	key := string(softBreaks)
	if re, ok := c.patterns[key]; ok {
		return re
	}

	alts := make([]string, 0, len(softBreaks)+1)
	alts = append(alts, "\\n")
	for _, r := range softBreaks {
		alts = append(alts, regexp2.Escape(string(r)))
	}

	re := regexp2.MustCompile(strings.Join(alts, "|"), regexp2.Unicode)
	c.put(key, re)
	return re
}

func (c *PatternCache) put(key string, re *regexp2.Regexp) {
	if len(c.order) >= maxPatternEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.patterns, oldest)
	}
	c.patterns[key] = re
	c.order = append(c.order, key)
}

// Len 当前缓存条目数，仅测试使用
func (c *PatternCache) Len() int {
	return len(c.patterns)
}

// SplitParagraphs 用断行匹配器把 text 切成段落。
// 相邻的分隔符之间产生空段落，空行数量得以保留。
// regexp2 的匹配位置按码点计，切片前先转成 rune 序列。
func (c *PatternCache) SplitParagraphs(text string, softBreaks []rune) []string {
	re := c.Matcher(softBreaks)
	runes := []rune(text)

	var paragraphs []string
	start := 0
	m, _ := re.FindStringMatch(text)
	for m != nil {
		paragraphs = append(paragraphs, string(runes[start:m.Index]))
		start = m.Index + m.Length
		m, _ = re.FindNextMatch(m)
	}
	paragraphs = append(paragraphs, string(runes[start:]))
	return paragraphs
}
