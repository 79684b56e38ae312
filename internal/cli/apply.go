package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/internal/session"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/internal/stats"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/document"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/rejoin"
)

var (
	applyRemoveBreaks   bool
	applyConvertSoft    bool
	applyIgnoreMinChars bool
	applyDryRun         bool
)

func newApplyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "分析并对被标记的文本块应用变更",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply()
		},
	}

	cmd.Flags().BoolVar(&applyRemoveBreaks, "remove-breaks", true, "合并附带换行")
	cmd.Flags().BoolVar(&applyConvertSoft, "convert-soft-breaks", true, "把软换行转换为硬换行")
	cmd.Flags().BoolVar(&applyIgnoreMinChars, "ignore-min-chars", false, "合并时忽略最小字符数保护")
	cmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "只显示将要应用的变更，不写回文件")

	return cmd
}

func runApply() error {
	e, err := setupEnv()
	if err != nil {
		return err
	}
	defer e.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary := stats.NewSummary()
	analyzed, err := analyze(ctx, e, summary)
	if err != nil {
		return err
	}

	opts := rejoin.Options{
		RemoveBreaks:      applyRemoveBreaks,
		ConvertSoftBreaks: applyConvertSoft,
		IgnoreMinChars:    applyIgnoreMinChars,
	}

	orch := session.NewOrchestrator(e.sess)
	flagged := 0
	for _, r := range analyzed {
		if r.HasIssues() {
			flagged++
		}
	}

	bar, _ := pterm.DefaultProgressbar.WithTotal(flagged).WithTitle("Applying").Start()
	last := 0
	orch.OnProgress = func(done, total int) {
		bar.Add(done - last)
		last = done
	}

	results, err := orch.ProcessAll(ctx, analyzed, opts, summary)
	_, _ = bar.Stop()
	if err != nil {
		return err
	}

	renderProcess(results)
	summary.Render(os.Stdout)

	switch {
	case summary.Cancelled:
		color.Yellow("apply cancelled, %d blocks already changed", summary.Applied)
	case summary.Errors > 0:
		color.Red("apply finished with errors: %d succeeded, %d failed", summary.Applied, summary.Errors)
	default:
		color.Green("apply complete: %d blocks changed", summary.Applied)
	}

	if applyDryRun {
		color.Cyan("dry run: document file left untouched")
		return nil
	}
	return e.store.Flush()
}

// renderProcess 打印逐节点的应用结果
func renderProcess(results []*document.ProcessResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Status", "Detail"})

	for _, r := range results {
		status := "unchanged"
		detail := ""
		switch {
		case r.Err != nil:
			status = "failed"
			detail = r.Err.Error()
		case r.SkipReason != "":
			status = "skipped"
			detail = string(r.SkipReason)
		case r.Applied:
			status = "applied"
			if r.Change.NewResizeMode != nil {
				detail = "resize mode -> " + string(*r.Change.NewResizeMode)
			}
		}
		t.AppendRow(table.Row{r.BlockID, r.Name, status, detail})
	}
	if t.Length() > 0 {
		t.Render()
	}
}
