package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/stackdraw/pkg/cache"
	"github.com/matzehuels/stackdraw/pkg/observability"
)

type recorder struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) OnParseComplete(_ context.Context, format string, _ int, _ time.Duration, err error) {
	r.add("parse:" + format + errSuffix(err))
}

func (r *recorder) OnBuildComplete(_ context.Context, _ int, _ time.Duration, err error) {
	r.add("build" + errSuffix(err))
}

func (r *recorder) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	r.add("render" + errSuffix(err))
}

func (r *recorder) OnCacheHit(_ context.Context, format string)       { r.add("hit:" + format) }
func (r *recorder) OnCacheMiss(_ context.Context, format string)      { r.add("miss:" + format) }
func (r *recorder) OnCacheSet(_ context.Context, format string, _ int) { r.add("set:" + format) }

func errSuffix(err error) string {
	if err != nil {
		return "!"
	}
	return ""
}

func TestExecuteReportsHooks(t *testing.T) {
	rec := &recorder{}
	observability.SetPipelineHooks(rec)
	observability.SetCacheHooks(rec)
	t.Cleanup(observability.Reset)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	opts := Options{Formats: []string{FormatSVG}}
	ctx := context.Background()

	if _, err := r.Execute(ctx, []byte(doc), opts); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Execute(ctx, []byte(doc), opts); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Execute(ctx, []byte("[[element"), opts); err == nil {
		t.Fatal("broken document should fail")
	}

	want := []string{
		"miss:svg", "parse:toml", "build", "render", "set:svg",
		"hit:svg",
		"miss:svg", "parse:toml!",
	}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}
