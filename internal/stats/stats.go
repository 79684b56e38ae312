package stats

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/document"
)

// Summary 一次批处理的聚合统计。调用方据此展示
// "N 成功，M 失败：原因分布"，不丢失已完成的工作。
type Summary struct {
	StartedAt  time.Time
	FinishedAt time.Time

	Total     int
	Flagged   int
	Applied   int
	Unchanged int
	Errors    int
	Cancelled bool

	SkippedByReason map[document.SkipReason]int
	IssuesByKind    map[document.IssueKind]int
}

func NewSummary() *Summary {
	return &Summary{
		StartedAt:       time.Now(),
		SkippedByReason: make(map[document.SkipReason]int),
		IssuesByKind:    make(map[document.IssueKind]int),
	}
}

// RecordAnalysis 累计一条分析结果
func (s *Summary) RecordAnalysis(r *document.AnalysisResult) {
	s.Total++
	switch {
	case r.Err != nil:
		s.Errors++
	case r.Skipped:
		s.SkippedByReason[r.SkipReason]++
	case len(r.Issues) > 0:
		s.Flagged++
		for _, issue := range r.Issues {
			s.IssuesByKind[issue.Kind]++
		}
	}
}

// RecordProcess 累计一条应用结果
func (s *Summary) RecordProcess(r *document.ProcessResult) {
	switch {
	case r.Err != nil:
		s.Errors++
	case r.SkipReason != "":
		s.SkippedByReason[r.SkipReason]++
	case r.Applied:
		s.Applied++
	default:
		s.Unchanged++
	}
}

// Skipped 全部跳过原因的合计
func (s *Summary) Skipped() int {
	total := 0
	for _, n := range s.SkippedByReason {
		total += n
	}
	return total
}

// Duration 批处理耗时
func (s *Summary) Duration() time.Duration {
	end := s.FinishedAt
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(s.StartedAt)
}

// Render 把汇总写成表格
func (s *Summary) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Metric", "Count"})
	t.AppendRow(table.Row{"Total blocks", s.Total})
	t.AppendRow(table.Row{"Flagged", s.Flagged})
	if s.Applied > 0 || s.Unchanged > 0 {
		t.AppendRow(table.Row{"Applied", s.Applied})
		t.AppendRow(table.Row{"Unchanged", s.Unchanged})
	}
	t.AppendRow(table.Row{"Skipped", s.Skipped()})
	t.AppendRow(table.Row{"Errors", s.Errors})
	t.AppendRow(table.Row{"Duration", s.Duration().Round(time.Millisecond)})
	if s.Cancelled {
		t.AppendRow(table.Row{"Cancelled", "yes"})
	}
	t.Render()

	if len(s.SkippedByReason) > 0 {
		rt := table.NewWriter()
		rt.SetOutputMirror(w)
		rt.SetStyle(table.StyleLight)
		rt.AppendHeader(table.Row{"Skip reason", "Count"})
		for _, reason := range sortedReasons(s.SkippedByReason) {
			rt.AppendRow(table.Row{string(reason), s.SkippedByReason[reason]})
		}
		rt.Render()
	}
}

// Oneline 单行汇总，日志用
func (s *Summary) Oneline() string {
	return fmt.Sprintf("total=%d flagged=%d applied=%d skipped=%d errors=%d",
		s.Total, s.Flagged, s.Applied, s.Skipped(), s.Errors)
}

func sortedReasons(m map[document.SkipReason]int) []document.SkipReason {
	reasons := make([]document.SkipReason, 0, len(m))
	for r := range m {
		reasons = append(reasons, r)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
	return reasons
}
