package session

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/internal/stats"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/detect"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/document"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/rejoin"
)

// State 批处理状态机：Idle → Analyzing → (Idle | Cancelled)，
// Idle → Processing → (Idle | Cancelled)。
type State int

const (
	StateIdle State = iota
	StateAnalyzing
	StateProcessing
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnalyzing:
		return "analyzing"
	case StateProcessing:
		return "processing"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// ProgressFunc 批处理进度回调，done 单调递增到 total
type ProgressFunc func(done, total int)

// Orchestrator 按块序列化地执行分析与应用。取消是协作式的：
// 每个分块（以及每个条目）前检查一次，取消后已产生的结果保留。
type Orchestrator struct {
	session *Session
	state   State

	// OnProgress 可选进度回调
	OnProgress ProgressFunc
}

func NewOrchestrator(s *Session) *Orchestrator {
	return &Orchestrator{session: s, state: StateIdle}
}

// State 当前状态
func (o *Orchestrator) State() State {
	return o.state
}

// AnalyzeAll 对全部文本块运行检测。结果顺序与输入一致；单个条目
// 的失败记入该条目的结果，批次继续。返回 error 仅表示批次级失败。
func (o *Orchestrator) AnalyzeAll(ctx context.Context, blocks []*document.TextBlock, summary *stats.Summary) ([]*document.AnalysisResult, error) {
	if o.state != StateIdle {
		return nil, &document.BatchError{Stage: "analyze", Cause: fmt.Errorf("orchestrator is %s", o.state)}
	}
	o.state = StateAnalyzing

	log := o.session.Logger
	log.Info("starting analysis batch",
		zap.String("session", o.session.ID),
		zap.Int("totalBlocks", len(blocks)),
		zap.Int("chunkSize", o.session.Config.AnalyzeChunkSize))

	results := make([]*document.AnalysisResult, 0, len(blocks))
	chunk := o.session.Config.AnalyzeChunkSize

	for start := 0; start < len(blocks); start += chunk {
		if ctx.Err() != nil {
			o.state = StateCancelled
			summary.Cancelled = true
			log.Warn("analysis cancelled", zap.Int("completed", len(results)))
			return results, nil
		}

		end := start + chunk
		if end > len(blocks) {
			end = len(blocks)
		}
		for _, block := range blocks[start:end] {
			if ctx.Err() != nil {
				o.state = StateCancelled
				summary.Cancelled = true
				return results, nil
			}
			r := o.analyzeOne(block)
			results = append(results, r)
			summary.RecordAnalysis(r)
		}

		if o.OnProgress != nil {
			o.OnProgress(len(results), len(blocks))
		}
		// 分块之间让出调度，保持宿主侧的交互响应
		runtime.Gosched()
	}

	o.state = StateIdle
	log.Info("analysis batch completed", zap.String("summary", summary.Oneline()))
	return results, nil
}

// analyzeOne 单个条目的检测，panic 被收进该条目的错误
func (o *Orchestrator) analyzeOne(block *document.TextBlock) (result *document.AnalysisResult) {
	defer func() {
		if p := recover(); p != nil {
			o.session.Logger.Error("detection panicked",
				zap.String("block", block.ID),
				zap.Any("panic", p))
			result = &document.AnalysisResult{
				Block: block,
				Err:   fmt.Errorf("analysis failed for %s: %v", block.ID, p),
			}
		}
	}()

	if reason, skip := detect.Skippable(block, o.session.Config); skip {
		return &document.AnalysisResult{Block: block, Skipped: true, SkipReason: reason}
	}
	issues := o.session.Detector.Detect(block, o.session.Config)
	return &document.AnalysisResult{Block: block, Issues: issues}
}

// ProcessAll 对有问题的块合成并应用变更。先做校验过滤，校验失败
// 的结果排在变更尝试之前；之后按较小的分块应用，因为应用阶段可能
// 等待异步字体加载。
func (o *Orchestrator) ProcessAll(ctx context.Context, analyzed []*document.AnalysisResult, opts rejoin.Options, summary *stats.Summary) ([]*document.ProcessResult, error) {
	if o.state != StateIdle {
		return nil, &document.BatchError{Stage: "process", Cause: fmt.Errorf("orchestrator is %s", o.state)}
	}
	o.state = StateProcessing

	log := o.session.Logger

	// 校验阶段：跳过原因先于一切变更尝试上报
	var results []*document.ProcessResult
	var pending []*document.AnalysisResult
	for _, r := range analyzed {
		if !r.HasIssues() {
			continue
		}
		if reason, skip := validateBlock(r.Block); skip {
			pr := &document.ProcessResult{
				BlockID:    r.Block.ID,
				Name:       r.Block.Name,
				SkipReason: reason,
			}
			results = append(results, pr)
			summary.RecordProcess(pr)
			continue
		}
		pending = append(pending, r)
	}

	log.Info("starting apply batch",
		zap.String("session", o.session.ID),
		zap.Int("flagged", len(pending)+len(results)),
		zap.Int("validated", len(pending)),
		zap.Int("chunkSize", o.session.Config.ApplyChunkSize))

	// 进度按全部被标记的节点计：校验阶段跳过的条目一并计入
	// 已完成数，进度条才能走满
	chunk := o.session.Config.ApplyChunkSize
	done := len(results)
	total := done + len(pending)
	if o.OnProgress != nil && done > 0 {
		o.OnProgress(done, total)
	}

	for start := 0; start < len(pending); start += chunk {
		if ctx.Err() != nil {
			o.state = StateCancelled
			summary.Cancelled = true
			log.Warn("apply cancelled", zap.Int("completed", done))
			return results, nil
		}

		end := start + chunk
		if end > len(pending) {
			end = len(pending)
		}
		for _, r := range pending[start:end] {
			if ctx.Err() != nil {
				o.state = StateCancelled
				summary.Cancelled = true
				return results, nil
			}
			pr := o.processOne(ctx, r, opts)
			results = append(results, pr)
			summary.RecordProcess(pr)
			done++
		}

		if o.OnProgress != nil {
			o.OnProgress(done, total)
		}
		runtime.Gosched()
	}

	o.state = StateIdle
	log.Info("apply batch completed", zap.String("summary", summary.Oneline()))
	return results, nil
}

// processOne 单个条目的合成与应用；任何失败收进该条目的结果
func (o *Orchestrator) processOne(ctx context.Context, r *document.AnalysisResult, opts rejoin.Options) (result *document.ProcessResult) {
	block := r.Block
	result = &document.ProcessResult{BlockID: block.ID, Name: block.Name}

	defer func() {
		if p := recover(); p != nil {
			o.session.Logger.Error("apply panicked",
				zap.String("block", block.ID),
				zap.Any("panic", p))
			result.Applied = false
			result.Err = fmt.Errorf("apply failed for %s: %v", block.ID, p)
		}
	}()

	// 字体未加载前禁止改写内容或 resize mode
	if err := o.session.Fonts.EnsureLoaded(ctx, block); err != nil {
		if reason, ok := document.SkipReasonFor(err); ok {
			result.SkipReason = reason
			return result
		}
		result.Err = fmt.Errorf("%w: %s", document.ErrFontLoad, err)
		return result
	}

	change := o.session.Synthesizer.Synthesize(block, r.Issues, opts)
	if change.IsEmpty() {
		o.session.Logger.Debug("no effective change", zap.String("block", block.ID))
		return result
	}

	if err := o.session.Store.Apply(ctx, block.ID, change); err != nil {
		result.Err = err
		return result
	}

	result.Applied = true
	result.Change = change
	return result
}

// validateBlock 应用前的最终校验，节点状态可能在分析后发生变化
func validateBlock(block *document.TextBlock) (document.SkipReason, bool) {
	switch {
	case block.HasMissingFont:
		return document.SkipMissingFont, true
	case block.Locked:
		return document.SkipLocked, true
	case !block.Visible:
		return document.SkipHidden, true
	}
	return "", false
}
