package textwidth

import "github.com/mattn/go-runewidth"

// 宽度类别系数，单位为 em（乘以字号得到像素宽度）
const (
	fullWidthEm = 1.0
	halfWidthEm = 0.5
	defaultEm   = 0.8
)

// IsCJK 判断码点是否属于全角 CJK 范围。行重组时两侧都是 CJK 的
// 行直接拼接，不插空格。
func IsCJK(r rune) bool {
	switch {
	case r >= 0x3040 && r <= 0x309F: // ひらがな
		return true
	case r >= 0x30A0 && r <= 0x30FF: // カタカナ
		return true
	case r >= 0x4E00 && r <= 0x9FAF: // CJK 统一表意文字
		return true
	case r >= 0x3400 && r <= 0x4DBF: // CJK 扩展 A
		return true
	case r >= 0xFF00 && r <= 0xFFEF: // 全角形式，内嵌的半角片假名区除外
		return !(r >= 0xFF61 && r <= 0xFF9F)
	case r >= 0x3000 && r <= 0x303F: // CJK 标点
		return true
	}
	return false
}

// isHalfWidth 基本拉丁可见区与半角片假名
func isHalfWidth(r rune) bool {
	if r >= 0x0020 && r <= 0x007E {
		return true
	}
	if r >= 0xFF61 && r <= 0xFF9F {
		return true
	}
	return false
}

// narrowGlyphs 窄字形的精细系数。对混排文本，i/l/标点按半角算
// 会明显偏宽，进而影响合并判断。
var narrowGlyphs = map[rune]float64{
	'i': 0.28, 'j': 0.28, 'l': 0.28, 'f': 0.33, 't': 0.33, 'r': 0.37,
	'I': 0.30, 'J': 0.37,
	'.': 0.27, ',': 0.27, ':': 0.27, ';': 0.27,
	'\'': 0.27, '`': 0.30, '|': 0.28, '!': 0.30,
	'(': 0.33, ')': 0.33, '[': 0.33, ']': 0.33,
	' ': 0.30,
}

// wideGlyphs 宽字形的精细系数
var wideGlyphs = map[rune]float64{
	'M': 0.85, 'W': 0.85, 'm': 0.80, 'w': 0.72,
	'@': 0.85, '%': 0.82, '&': 0.72, '#': 0.68,
	'G': 0.72, 'O': 0.72, 'Q': 0.72, 'D': 0.70,
}

// symbolGlyphs 常见符号的实测近似值
var symbolGlyphs = map[rune]float64{
	'—': 1.0,  // em dash
	'–': 0.8,  // en dash
	'‘': 0.3,  // '
	'’': 0.3,  // '
	'“': 0.45, // "
	'”': 0.45, // "
	'…': 1.0,  // …
	'¥': 0.65, // ¥
	'€': 0.65, // €
	'£': 0.6,  // £
	'©': 0.9,  // ©
	'®': 0.9,  // ®
	'™': 0.85, // ™
	'°': 0.45, // °
	'·': 0.3,  // ·
}

// runeEm 返回单个码点的 em 系数。显式表优先；表外的码点如果
// go-runewidth 判定为东亚全宽（如谚文）按全角算，其余用默认系数。
func runeEm(r rune, refined bool) float64 {
	if refined {
		if w, ok := narrowGlyphs[r]; ok {
			return w
		}
		if w, ok := wideGlyphs[r]; ok {
			return w
		}
		if w, ok := symbolGlyphs[r]; ok {
			return w
		}
	}
	if IsCJK(r) {
		return fullWidthEm
	}
	if isHalfWidth(r) {
		return halfWidthEm
	}
	if runewidth.RuneWidth(r) == 2 {
		return fullWidthEm
	}
	return defaultEm
}
