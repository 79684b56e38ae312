package textwidth

import (
	"strconv"
	"unicode/utf8"
)

const (
	// maxCacheEntries 备忘缓存上限，超出后淘汰最旧条目
	maxCacheEntries = 500
	// maxMemoizedRunes 超长字符串不进缓存，避免缓存体积失控
	maxMemoizedRunes = 100
)

// Estimator 估算字符串在给定字号下的渲染宽度。纯启发式模型，
// 不做真实排版；确定性、对字符串长度和字号单调。
type Estimator struct {
	// Multiplier 整体宽度缩放系数
	Multiplier float64
	// Refined 启用窄/宽字形与符号精细表
	Refined bool

	cache map[string]float64
	order []string
}

// NewEstimator 创建启用精细表的估算器
func NewEstimator(multiplier float64) *Estimator {
	if multiplier <= 0 {
		multiplier = 1.0
	}
	return &Estimator{
		Multiplier: multiplier,
		Refined:    true,
		cache:      make(map[string]float64, maxCacheEntries),
	}
}

// EstimateWidth 返回 text 在 fontSize 像素字号下的估算宽度（像素）。
// 结果按 (text, fontSize) 备忘；嵌套的换行模拟循环会反复估算同
// 一行的前缀。
func (e *Estimator) EstimateWidth(text string, fontSize float64) float64 {
	if text == "" || fontSize <= 0 {
		return 0
	}

	memoize := utf8.RuneCountInString(text) <= maxMemoizedRunes
	var key string
	if memoize {
		key = strconv.FormatFloat(fontSize, 'g', -1, 64) + "\x00" + text
		if w, ok := e.cache[key]; ok {
			return w
		}
	}

	var em float64
	for _, r := range text {
		em += runeEm(r, e.Refined)
	}
	width := em * fontSize * e.Multiplier

	if memoize {
		e.put(key, width)
	}
	return width
}

func (e *Estimator) put(key string, width float64) {
	if _, exists := e.cache[key]; !exists && len(e.order) >= maxCacheEntries {
		oldest := e.order[0]
		e.order = e.order[1:]
		delete(e.cache, oldest)
	}
	if _, exists := e.cache[key]; !exists {
		e.order = append(e.order, key)
	}
	e.cache[key] = width
}

// CacheLen 当前缓存条目数，仅测试使用
func (e *Estimator) CacheLen() int {
	return len(e.cache)
}
