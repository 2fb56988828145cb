package observability

import (
	"context"
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	NoopPipelineHooks
	loads   int
	layouts int
	renders int
}

func (h *recordingPipelineHooks) OnLoadStart(context.Context, string) { h.loads++ }
func (h *recordingPipelineHooks) OnLayoutStart(context.Context, int, int) {
	h.layouts++
}
func (h *recordingPipelineHooks) OnRenderStart(context.Context, []string) { h.renders++ }

func TestSetAndGetPipelineHooks(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)

	ctx := context.Background()
	Pipeline().OnLoadStart(ctx, "doc.json")
	Pipeline().OnLayoutStart(ctx, 10, 2)
	Pipeline().OnRenderStart(ctx, []string{"svg"})
	Pipeline().OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)

	if rec.loads != 1 || rec.layouts != 1 || rec.renders != 1 {
		t.Errorf("hooks not routed: %+v", rec)
	}
}

func TestSetNilKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)
	SetPipelineHooks(nil)

	Pipeline().OnLoadStart(context.Background(), "doc.json")
	if rec.loads != 1 {
		t.Error("nil registration should keep the previous hooks")
	}
}

func TestResetRestoresNoops(t *testing.T) {
	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)
	Reset()

	Pipeline().OnLoadStart(context.Background(), "doc.json")
	if rec.loads != 0 {
		t.Error("reset should restore no-op hooks")
	}
}

func TestDefaultsAreNoops(t *testing.T) {
	Reset()
	ctx := context.Background()

	// Must not panic.
	Pipeline().OnLoadComplete(ctx, "s", 1, time.Second, nil)
	Cache().OnCacheHit(ctx, "layout")
	Cache().OnCacheSet(ctx, "doc", 128)
	Fetch().OnError(ctx, "https://example.com", context.Canceled)
}
