package document

import "errors"

// 批处理错误分类。跳过类错误是非致命的，逐项记录后批次继续执行；
// 只有批次输入本身不合法时才会以 BatchError 形式上抛。
var (
	ErrMissingFont = errors.New("block uses a missing font")
	ErrLockedBlock = errors.New("block is locked")
	ErrHiddenBlock = errors.New("block is hidden")
	ErrFontLoad    = errors.New("font load failed")
	ErrNotFound    = errors.New("block not found")
)

// BatchError 包裹逐项边界之外的意外失败，整批中止并返回给调用方。
// 已经产生的部分结果仍然随错误一起保留。
type BatchError struct {
	Stage string // "analyze" 或 "process"
	Cause error
}

func (e *BatchError) Error() string {
	return "batch " + e.Stage + " failed: " + e.Cause.Error()
}

func (e *BatchError) Unwrap() error {
	return e.Cause
}

// SkipReasonFor 把跳过类错误映射为统计原因；非跳过类错误返回 false
func SkipReasonFor(err error) (SkipReason, bool) {
	switch {
	case errors.Is(err, ErrMissingFont):
		return SkipMissingFont, true
	case errors.Is(err, ErrLockedBlock):
		return SkipLocked, true
	case errors.Is(err, ErrHiddenBlock):
		return SkipHidden, true
	}
	return "", false
}
