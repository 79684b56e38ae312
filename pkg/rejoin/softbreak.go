package rejoin

import "strings"

// ConvertSoftBreaks 把配置的软换行码点全部替换为硬换行。
// 各字符之间顺序无关；文本里不再含软换行后幂等。
func ConvertSoftBreaks(text string, softBreaks []rune) string {
	if len(softBreaks) == 0 {
		return text
	}

	pairs := make([]string, 0, len(softBreaks)*2)
	for _, r := range softBreaks {
		pairs = append(pairs, string(r), "\n")
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// CountSoftBreaks 统计文本中软换行码点的出现次数
func CountSoftBreaks(text string, softBreaks []rune) int {
	count := 0
	for _, r := range softBreaks {
		count += strings.Count(text, string(r))
	}
	return count
}
