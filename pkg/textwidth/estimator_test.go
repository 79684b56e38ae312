package textwidth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateWidthHiragana(t *testing.T) {
	e := NewEstimator(1.0)

	// 10 个平假名，16px 字号：10 × 1.0 × 16 = 160
	text := strings.Repeat("あ", 10)
	assert.InDelta(t, 160.0, e.EstimateWidth(text, 16), 1e-9)
}

func TestEstimateWidthClasses(t *testing.T) {
	e := NewEstimator(1.0)
	e.Refined = false

	testCases := []struct {
		name     string
		text     string
		fontSize float64
		expected float64
	}{
		{name: "half-width latin", text: "abcd", fontSize: 16, expected: 4 * 0.5 * 16},
		{name: "half-width katakana", text: "ｱｲｳ", fontSize: 16, expected: 3 * 0.5 * 16},
		{name: "cjk punctuation", text: "。、", fontSize: 16, expected: 2 * 1.0 * 16},
		{name: "fullwidth forms", text: "ＡＢ", fontSize: 16, expected: 2 * 1.0 * 16},
		{name: "hangul counts as wide", text: "한", fontSize: 16, expected: 1.0 * 16},
		{name: "fallback class", text: "é", fontSize: 10, expected: 0.8 * 10},
		{name: "empty string", text: "", fontSize: 16, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, e.EstimateWidth(tc.text, tc.fontSize), 1e-9)
		})
	}
}

func TestEstimateWidthMonotonic(t *testing.T) {
	e := NewEstimator(1.0)

	text := ""
	prev := 0.0
	for i := 0; i < 50; i++ {
		text += "漢"
		w := e.EstimateWidth(text, 14)
		assert.Greater(t, w, prev)
		prev = w
	}
}

func TestEstimateWidthLinearInFontSize(t *testing.T) {
	e := NewEstimator(1.0)

	text := "こんにちは world"
	w16 := e.EstimateWidth(text, 16)
	w32 := e.EstimateWidth(text, 32)
	assert.InDelta(t, 2*w16, w32, 1e-9)
}

func TestEstimateWidthMultiplier(t *testing.T) {
	base := NewEstimator(1.0)
	scaled := NewEstimator(1.5)

	text := "テスト text"
	assert.InDelta(t, 1.5*base.EstimateWidth(text, 16), scaled.EstimateWidth(text, 16), 1e-9)
}

func TestRefinedGlyphs(t *testing.T) {
	e := NewEstimator(1.0)

	// 精细表里窄字形比半角默认值窄，宽字形更宽
	assert.Less(t, e.EstimateWidth("iiii", 16), e.EstimateWidth("nnnn", 16))
	assert.Greater(t, e.EstimateWidth("MMMM", 16), e.EstimateWidth("nnnn", 16))
	assert.Greater(t, e.EstimateWidth("—", 16), e.EstimateWidth("–", 16))
}

func TestCacheBounds(t *testing.T) {
	e := NewEstimator(1.0)

	// 超过 100 个字符的字符串不进缓存
	long := strings.Repeat("あ", 101)
	e.EstimateWidth(long, 16)
	assert.Equal(t, 0, e.CacheLen())

	short := strings.Repeat("あ", 100)
	e.EstimateWidth(short, 16)
	assert.Equal(t, 1, e.CacheLen())
}

func TestCacheEviction(t *testing.T) {
	e := NewEstimator(1.0)

	for i := 0; i < maxCacheEntries+50; i++ {
		e.EstimateWidth(strings.Repeat("a", i%90+1), float64(10+i))
	}
	assert.LessOrEqual(t, e.CacheLen(), maxCacheEntries)
}

func TestCacheHitStaysCorrect(t *testing.T) {
	e := NewEstimator(1.0)

	w1 := e.EstimateWidth("キャッシュ", 16)
	w2 := e.EstimateWidth("キャッシュ", 16)
	assert.Equal(t, w1, w2)
}

func TestIsCJK(t *testing.T) {
	assert.True(t, IsCJK('あ'))
	assert.True(t, IsCJK('ア'))
	assert.True(t, IsCJK('漢'))
	assert.True(t, IsCJK('。'))
	assert.True(t, IsCJK('Ａ'))
	assert.False(t, IsCJK('a'))
	assert.False(t, IsCJK(' '))
	assert.False(t, IsCJK('ｱ')) // 半角片假名按半角处理
}
