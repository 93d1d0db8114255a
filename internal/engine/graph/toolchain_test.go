package graph_test

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/gryla/internal/adapters/cas"
	memfs "go.trai.ch/gryla/internal/adapters/fs"
	"go.trai.ch/gryla/internal/adapters/telemetry"
	"go.trai.ch/gryla/internal/core/domain"
	"go.trai.ch/gryla/internal/core/ports"
	"go.trai.ch/gryla/internal/core/ports/mocks"
	"go.trai.ch/gryla/internal/engine/graph"
	"go.uber.org/mock/gomock"
)

// fakeToolchain stands in for the C compiler. It writes each invocation's
// output into the filesystem and records what it was asked to run.
type fakeToolchain struct {
	fs *memfs.MemFS

	mu      sync.Mutex
	calls   []domain.Invocation
	failing map[string]domain.ProcessResult
	partial bool
}

func newFakeToolchain(fsys *memfs.MemFS) *fakeToolchain {
	return &fakeToolchain{fs: fsys, failing: make(map[string]domain.ProcessResult)}
}

// fail makes any invocation whose first input or output equals subject fail with res.
func (f *fakeToolchain) fail(subject string, res domain.ProcessResult) {
	f.failing[subject] = res
}

func (f *fakeToolchain) Run(_ context.Context, inv domain.Invocation) (domain.ProcessResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, inv.Clone())
	f.mu.Unlock()

	for _, subject := range append(slices.Clone(inv.Inputs), inv.Output) {
		if res, ok := f.failing[subject]; ok {
			if f.partial {
				_ = f.fs.WriteFile(inv.Output, []byte("partial"), domain.FilePerm)
			}
			return res, nil
		}
	}

	if err := f.fs.WriteFile(inv.Output, []byte(strings.Join(inv.Argv(), " ")), domain.FilePerm); err != nil {
		return domain.ProcessResult{ExitCode: 1, Output: []byte(err.Error())}, nil
	}
	return domain.ProcessResult{}, nil
}

func (f *fakeToolchain) invocations() []domain.Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func (f *fakeToolchain) count(kind domain.InvocationKind) int {
	n := 0
	for _, inv := range f.invocations() {
		if inv.Kind == kind {
			n++
		}
	}
	return n
}

func (f *fakeToolchain) compiled() []string {
	var out []string
	for _, inv := range f.invocations() {
		if inv.Kind == domain.InvocationCompile {
			out = append(out, inv.Inputs[0])
		}
	}
	slices.Sort(out)
	return out
}

func (f *fakeToolchain) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

type fixture struct {
	fs     *memfs.MemFS
	tc     *fakeToolchain
	cfg    *domain.BuildConfig
	logger *mocks.MockLogger
	store  *cas.Store
}

func newFixture(t *testing.T, sources ...string) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	fsys := memfs.NewMemFS()
	require.NoError(t, fsys.MkdirAll("lib", domain.DirPerm))
	for _, src := range sources {
		require.NoError(t, fsys.WriteFile(filepath.Join("lib", src), []byte("int x;"), domain.FilePerm))
	}

	store, err := cas.NewStore(fsys, domain.DefaultStatePath())
	require.NoError(t, err)

	cfg := domain.DefaultBuildConfig()
	cfg.Jobs = 2

	return &fixture{
		fs:     fsys,
		tc:     newFakeToolchain(fsys),
		cfg:    cfg,
		logger: mocks.NewMockLogger(ctrl),
		store:  store,
	}
}

func (f *fixture) engine() *graph.Engine {
	return f.engineWith(f.tc)
}

func (f *fixture) engineWith(runner ports.ProcessRunner) *graph.Engine {
	return graph.NewEngine(
		f.cfg,
		f.fs,
		runner,
		f.store,
		memfs.NewHasher(),
		telemetry.NewNoOpTracer(),
		f.logger,
	).WithRoot("/work")
}
