package wrap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/textwidth"
)

func newTestSimulator() *Simulator {
	e := textwidth.NewEstimator(1.0)
	e.Refined = false
	return NewSimulator(e, NewPatternCache())
}

func TestSimulateCJKWrapping(t *testing.T) {
	s := newTestSimulator()

	// 25 个平假名，容器 160px、字号 16px：每行最多 10 个全角字符
	text := strings.Repeat("あ", 25)
	lines := s.Simulate(text, 160, 16, nil)

	assert.Len(t, lines, 3)
	assert.Equal(t, strings.Repeat("あ", 10), lines[0].Text)
	assert.Equal(t, strings.Repeat("あ", 10), lines[1].Text)
	assert.Equal(t, strings.Repeat("あ", 5), lines[2].Text)
}

func TestSimulateLatinWordWrapping(t *testing.T) {
	s := newTestSimulator()

	// 半角 0.5em：8px/字符。hello(40)+空格(8)+world(40)=88 恰好
	// 放进 88px 容器，再加空格超宽；空白作为独立 token 保留
	lines := s.Simulate("hello world again", 88, 16, nil)

	assert.Len(t, lines, 2)
	assert.Equal(t, "hello world", lines[0].Text)
	assert.Equal(t, " again", lines[1].Text)
}

func TestSimulateOverwideWordNotStuck(t *testing.T) {
	s := newTestSimulator()

	// 单词比容器还宽：行为空时无条件接收，不会死循环
	lines := s.Simulate("supercalifragilistic", 40, 16, nil)
	assert.Len(t, lines, 1)
	assert.Equal(t, "supercalifragilistic", lines[0].Text)
}

func TestSimulateEmptyParagraphs(t *testing.T) {
	s := newTestSimulator()

	lines := s.Simulate("あ\n\nい", 160, 16, nil)
	assert.Len(t, lines, 3)
	assert.Equal(t, "", lines[1].Text)
}

func TestSimulateSoftBreaksSplit(t *testing.T) {
	s := newTestSimulator()

	lines := s.Simulate("あい うえ", 160, 16, []rune{' '})
	assert.Len(t, lines, 2)
	assert.Equal(t, "あい", lines[0].Text)
	assert.Equal(t, "うえ", lines[1].Text)
}

func TestSimulateLineIndexOrder(t *testing.T) {
	s := newTestSimulator()

	lines := s.Simulate(strings.Repeat("漢", 30), 160, 16, nil)
	for i, line := range lines {
		assert.Equal(t, i, line.Index)
	}
}

func TestSimulateIndependentOfExistingBreaks(t *testing.T) {
	s := newTestSimulator()

	// 模拟结果只取决于段落内容和容器宽，与原有换行位置无关
	wide := s.Simulate(strings.Repeat("あ", 12), 160, 16, nil)
	assert.Len(t, wide, 2)

	narrow := s.Simulate(strings.Repeat("あ", 8), 160, 16, nil)
	assert.Len(t, narrow, 1)
}
