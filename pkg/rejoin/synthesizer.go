package rejoin

import (
	"sort"

	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/internal/config"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/document"
)

// Options 应用阶段的用户选项，控制哪些补救动作生效
type Options struct {
	RemoveBreaks      bool
	ConvertSoftBreaks bool
	IgnoreMinChars    bool
}

// DefaultOptions 两类补救都启用
func DefaultOptions() Options {
	return Options{RemoveBreaks: true, ConvertSoftBreaks: true}
}

// Synthesizer 把合并与软换行转换的输出加上 resize mode 决策，
// 组合成每个文本块的单一变更集。
type Synthesizer struct {
	joiner *Joiner
	cfg    *config.Processing
}

func NewSynthesizer(joiner *Joiner, cfg *config.Processing) *Synthesizer {
	return &Synthesizer{joiner: joiner, cfg: cfg}
}

// Synthesize 根据检出的问题生成变更集。自动宽度模式无条件转为
// AUTO_HEIGHT 并执行合并；其余问题按置信度降序应用。软换行转换
// （0.8）因此先于合并（0.75）执行，转换暴露出的硬换行会进入同一
// 次合并判定。
func (s *Synthesizer) Synthesize(block *document.TextBlock, issues []document.Issue, opts Options) *document.ChangeSet {
	change := &document.ChangeSet{}
	text := block.Content

	if block.ResizeMode == document.ResizeAutoWidthHeight {
		if opts.RemoveBreaks {
			text = s.joiner.Rejoin(text, block.ContainerWidth, block.FontSizePx, s.cfg, opts.IgnoreMinChars)
		}
		mode := document.ResizeAutoHeight
		change.NewResizeMode = &mode
	} else {
		sorted := make([]document.Issue, len(issues))
		copy(sorted, issues)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Confidence > sorted[j].Confidence
		})

		for _, issue := range sorted {
			switch issue.Kind {
			case document.IssueAutoWidth:
				if opts.RemoveBreaks {
					text = s.joiner.Rejoin(text, block.ContainerWidth, block.FontSizePx, s.cfg, opts.IgnoreMinChars)
				}
				mode := document.ResizeAutoHeight
				change.NewResizeMode = &mode
			case document.IssueEdgeBreak:
				if opts.RemoveBreaks {
					text = s.joiner.Rejoin(text, block.ContainerWidth, block.FontSizePx, s.cfg, opts.IgnoreMinChars)
				}
			case document.IssueSoftBreak:
				if opts.ConvertSoftBreaks {
					text = ConvertSoftBreaks(text, s.cfg.SoftBreakRunes())
				}
			}
		}
	}

	if text != block.Content {
		change.NewText = &text
	}
	if change.NewResizeMode != nil && *change.NewResizeMode == block.ResizeMode {
		change.NewResizeMode = nil
	}
	return change
}
