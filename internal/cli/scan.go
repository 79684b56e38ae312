package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/internal/session"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/internal/stats"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/document"
)

func newScanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "分析文本块并列出检出的换行问题",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setupEnv()
			if err != nil {
				return err
			}
			defer e.close()

			// Ctrl-C 触发协作式取消，已产生的结果保留
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			summary := stats.NewSummary()
			results, err := analyze(ctx, e, summary)
			if err != nil {
				return err
			}

			renderAnalysis(results)
			summary.Render(os.Stdout)

			if summary.Cancelled {
				color.Yellow("scan cancelled, partial results shown")
			} else {
				color.Green("scan complete: %d of %d blocks flagged", summary.Flagged, summary.Total)
			}
			return nil
		},
	}
}

// analyze 执行一次分析批次
func analyze(ctx context.Context, e *env, summary *stats.Summary) ([]*document.AnalysisResult, error) {
	blocks, err := e.store.Blocks(ctx)
	if err != nil {
		return nil, err
	}

	orch := session.NewOrchestrator(e.sess)
	bar, _ := pterm.DefaultProgressbar.WithTotal(len(blocks)).WithTitle("Scanning").Start()
	last := 0
	orch.OnProgress = func(done, total int) {
		bar.Add(done - last)
		last = done
	}

	results, err := orch.AnalyzeAll(ctx, blocks, summary)
	_, _ = bar.Stop()
	return results, err
}

// renderAnalysis 打印被标记节点的明细表
func renderAnalysis(results []*document.AnalysisResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Chars", "Issues", "Confidence", "Lines"})

	for _, r := range results {
		if !r.HasIssues() {
			continue
		}
		kinds := make([]string, 0, len(r.Issues))
		best := 0.0
		lines := 0
		for _, issue := range r.Issues {
			kinds = append(kinds, string(issue.Kind))
			if issue.Confidence > best {
				best = issue.Confidence
			}
			lines += len(issue.AffectedLines)
		}
		t.AppendRow(table.Row{
			r.Block.ID,
			r.Block.Name,
			r.Block.CharCount(),
			strings.Join(kinds, ", "),
			fmt.Sprintf("%.2f", best),
			lines,
		})
	}
	if t.Length() > 0 {
		t.Render()
	}
}
