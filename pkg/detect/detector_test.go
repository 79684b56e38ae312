package detect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/internal/config"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/document"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/textwidth"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/wrap"
)

func newTestDetector() *Detector {
	e := textwidth.NewEstimator(1.0)
	e.Refined = false
	return NewDetector(e, wrap.NewSimulator(e, wrap.NewPatternCache()))
}

func testConfig() *config.Processing {
	cfg := config.Default()
	cfg.MinCharacters = 5
	cfg.LineBreakThreshold = 0.9
	return cfg
}

func testBlock(content string) *document.TextBlock {
	return &document.TextBlock{
		ID:             "1:1",
		Name:           "text",
		Content:        content,
		ContainerWidth: 400,
		FontSizePx:     16,
		ResizeMode:     document.ResizeAutoHeight,
		Visible:        true,
	}
}

func TestDetectSkipConditions(t *testing.T) {
	d := newTestDetector()
	cfg := testConfig()

	testCases := []struct {
		name   string
		mutate func(*document.TextBlock)
		reason document.SkipReason
	}{
		{name: "missing font", mutate: func(b *document.TextBlock) { b.HasMissingFont = true }, reason: document.SkipMissingFont},
		{name: "locked", mutate: func(b *document.TextBlock) { b.Locked = true }, reason: document.SkipLocked},
		{name: "hidden", mutate: func(b *document.TextBlock) { b.Visible = false }, reason: document.SkipHidden},
		{name: "too short", mutate: func(b *document.TextBlock) { b.Content = "短い" }, reason: document.SkipTooShort},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			block := testBlock(strings.Repeat("あ", 30) + "\n" + strings.Repeat("い", 10))
			tc.mutate(block)

			reason, skip := Skippable(block, cfg)
			assert.True(t, skip)
			assert.Equal(t, tc.reason, reason)
			assert.Empty(t, d.Detect(block, cfg))
		})
	}
}

func TestDetectAutoWidth(t *testing.T) {
	d := newTestDetector()
	cfg := testConfig()

	block := testBlock("一行目の文章です\n二行目の文章です")
	block.ResizeMode = document.ResizeAutoWidthHeight

	issues := d.Detect(block, cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, document.IssueAutoWidth, issues[0].Kind)
	assert.InDelta(t, 0.9, issues[0].Confidence, 1e-9)
	assert.Equal(t, []int{0}, issues[0].AffectedLines)
}

func TestDetectAutoWidthWithoutBreaks(t *testing.T) {
	d := newTestDetector()

	block := testBlock("改行のない一行だけの文章")
	block.ResizeMode = document.ResizeAutoWidthHeight

	assert.Empty(t, d.Detect(block, testConfig()))
}

func TestDetectEdgeBreak(t *testing.T) {
	d := newTestDetector()
	cfg := testConfig()

	// 容器 400px、阈值 0.9（360px）。23 个平假名 = 368px，比值
	// 0.92 达到阈值
	block := testBlock(strings.Repeat("あ", 23))
	issues := d.Detect(block, cfg)

	require.Len(t, issues, 1)
	assert.Equal(t, document.IssueEdgeBreak, issues[0].Kind)
	assert.NotEmpty(t, issues[0].AffectedLines)
}

func TestDetectEdgeBreakBelowThreshold(t *testing.T) {
	d := newTestDetector()

	// 20 个平假名 = 320px，比值 0.8 低于阈值
	block := testBlock(strings.Repeat("あ", 20))
	assert.Empty(t, d.Detect(block, testConfig()))
}

func TestDetectEdgeBreakSkipsAutoWidthMode(t *testing.T) {
	d := newTestDetector()

	block := testBlock(strings.Repeat("あ", 23))
	block.ResizeMode = document.ResizeAutoWidthHeight
	for _, issue := range d.Detect(block, testConfig()) {
		assert.NotEqual(t, document.IssueEdgeBreak, issue.Kind)
	}
}

func TestDetectSoftBreak(t *testing.T) {
	d := newTestDetector()
	cfg := testConfig()

	block := testBlock("一行目です 二行目です 三行目です")
	issues := d.Detect(block, cfg)

	var soft *document.Issue
	for i := range issues {
		if issues[i].Kind == document.IssueSoftBreak {
			soft = &issues[i]
		}
	}
	require.NotNil(t, soft)
	assert.Equal(t, 2, soft.Count)
	assert.InDelta(t, 0.8, soft.Confidence, 1e-9)
	assert.Equal(t, []int{0, 1}, soft.AffectedLines)
}

func TestDetectSoftBreakRespectsParagraphSpacing(t *testing.T) {
	d := newTestDetector()

	// 段落间距非零时软换行有排版意义
	block := testBlock("一行目です 二行目です")
	block.ParagraphSpacing = 8
	for _, issue := range d.Detect(block, testConfig()) {
		assert.NotEqual(t, document.IssueSoftBreak, issue.Kind)
	}
}

func TestDetectDisabledDetections(t *testing.T) {
	d := newTestDetector()
	cfg := testConfig()
	cfg.EnabledDetections = []string{config.DetectionSoftBreak}

	block := testBlock(strings.Repeat("あ", 23))
	assert.Empty(t, d.Detect(block, cfg))
}

func TestDetectMultipleIssuesCoexist(t *testing.T) {
	d := newTestDetector()
	cfg := testConfig()

	block := testBlock(strings.Repeat("あ", 23) + " " + strings.Repeat("い", 23))
	issues := d.Detect(block, cfg)

	kinds := make(map[document.IssueKind]bool)
	for _, issue := range issues {
		kinds[issue.Kind] = true
	}
	assert.True(t, kinds[document.IssueEdgeBreak])
	assert.True(t, kinds[document.IssueSoftBreak])
}
