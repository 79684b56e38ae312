package document

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeExport(t *testing.T, blocks []*TextBlock) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	data, err := json.Marshal(&Export{Name: "test", Blocks: blocks})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestJSONStoreRoundTrip(t *testing.T) {
	path := writeExport(t, []*TextBlock{
		{ID: "1:1", Content: "一行目\n二行目", ResizeMode: ResizeAutoHeight, Visible: true},
		{ID: "1:2", Content: "そのまま", ResizeMode: ResizeFixed, Visible: true},
	})

	store, err := NewJSONStore(path, zap.NewNop())
	require.NoError(t, err)

	blocks, err := store.Blocks(context.Background())
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	newText := "一行目二行目"
	mode := ResizeAutoHeight
	require.NoError(t, store.Apply(context.Background(), "1:1", &ChangeSet{
		NewText:       &newText,
		NewResizeMode: &mode,
	}))
	assert.True(t, store.Dirty())
	require.NoError(t, store.Flush())
	assert.False(t, store.Dirty())

	reloaded, err := NewJSONStore(path, zap.NewNop())
	require.NoError(t, err)
	blocks, err = reloaded.Blocks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "一行目二行目", blocks[0].Content)
	assert.Equal(t, ResizeAutoHeight, blocks[0].ResizeMode)
	assert.Equal(t, "そのまま", blocks[1].Content)
}

func TestJSONStoreApplyUnknownID(t *testing.T) {
	path := writeExport(t, []*TextBlock{{ID: "1:1", Visible: true}})
	store, err := NewJSONStore(path, zap.NewNop())
	require.NoError(t, err)

	text := "x"
	err = store.Apply(context.Background(), "9:9", &ChangeSet{NewText: &text})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJSONStoreEmptyChange(t *testing.T) {
	path := writeExport(t, []*TextBlock{{ID: "1:1", Visible: true}})
	store, err := NewJSONStore(path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, store.Apply(context.Background(), "1:1", &ChangeSet{}))
	assert.False(t, store.Dirty())
}

// mutationLog 记录 setter 调用顺序的 BlockMutator
type mutationLog struct {
	ops []string
}

func (m *mutationLog) SetResizeMode(ResizeMode) { m.ops = append(m.ops, "resize_mode") }

func (m *mutationLog) SetContent(string) { m.ops = append(m.ops, "content") }

func TestApplyChangeResizeModeBeforeContent(t *testing.T) {
	// 两个字段都变时 resize mode 必须先写：仍受宽度约束的节点
	// 先改内容会触发一次中间重新换行
	text := "一行目二行目"
	mode := ResizeAutoHeight

	log := &mutationLog{}
	ApplyChange(log, &ChangeSet{NewText: &text, NewResizeMode: &mode})
	assert.Equal(t, []string{"resize_mode", "content"}, log.ops)

	// 单字段变更不产生多余调用
	log = &mutationLog{}
	ApplyChange(log, &ChangeSet{NewText: &text})
	assert.Equal(t, []string{"content"}, log.ops)
}

func TestCharCount(t *testing.T) {
	// grapheme 计数：组合 emoji 算一个字符
	b := &TextBlock{Content: "あいう"}
	assert.Equal(t, 3, b.CharCount())

	b.Content = "ábc" // á 组合形式
	assert.Equal(t, 3, b.CharCount())
}

func TestSkipReasonFor(t *testing.T) {
	reason, ok := SkipReasonFor(ErrMissingFont)
	assert.True(t, ok)
	assert.Equal(t, SkipMissingFont, reason)

	_, ok = SkipReasonFor(ErrFontLoad)
	assert.False(t, ok)
}
