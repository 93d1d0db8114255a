package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/gryla/internal/core/domain"
)

func TestCompileInvocation(t *testing.T) {
	cfg := domain.DefaultBuildConfig()
	cfg.ExtraCompileFlags = []string{"-O2", "-Wall"}

	inv := domain.CompileInvocation(cfg, domain.ObjectArtifact{Path: "lib/a.o", Source: "lib/a.c"})

	assert.Equal(t, domain.InvocationCompile, inv.Kind)
	assert.Equal(t,
		[]string{"cc", "-g", "-fPIC", "-O2", "-Wall", "-c", "lib/a.c", "-o", "lib/a.o"},
		inv.Argv())
	assert.Equal(t, []string{"lib/a.c"}, inv.Inputs)
	assert.Equal(t, "lib/a.o", inv.Output)
}

func TestCompileInvocation_DoesNotAliasFixedFlags(t *testing.T) {
	cfg := domain.DefaultBuildConfig()
	inv := domain.CompileInvocation(cfg, domain.ObjectArtifact{Path: "lib/a.o", Source: "lib/a.c"})
	inv.Args[0] = "-O3"

	assert.Equal(t, []string{"-g", "-fPIC"}, domain.CompileFlags)
}

func TestLinkInvocation(t *testing.T) {
	cfg := domain.DefaultBuildConfig()
	cfg.Compiler = "clang"

	inv := domain.LinkInvocation(cfg, []string{"lib/a.o", "lib/b.o"}, "libgryla.so.tmp")

	assert.Equal(t, domain.InvocationLink, inv.Kind)
	assert.Equal(t,
		[]string{"clang", "-shared", "-o", "libgryla.so.tmp", "lib/a.o", "lib/b.o"},
		inv.Argv())
	assert.Equal(t, []string{"lib/a.o", "lib/b.o"}, inv.Inputs)
}

func TestLinkInvocation_NoObjects(t *testing.T) {
	inv := domain.LinkInvocation(domain.DefaultBuildConfig(), nil, "libgryla.so")
	assert.Equal(t, []string{"cc", "-shared", "-o", "libgryla.so"}, inv.Argv())
}

func TestInvocation_Clone(t *testing.T) {
	inv := domain.Invocation{Tool: "cc", Args: []string{"-c"}, Inputs: []string{"a.c"}}
	cp := inv.Clone()
	cp.Args[0] = "-S"
	cp.Inputs[0] = "b.c"

	assert.Equal(t, "-c", inv.Args[0])
	assert.Equal(t, "a.c", inv.Inputs[0])
}

func TestProcessResult_Success(t *testing.T) {
	assert.True(t, domain.ProcessResult{}.Success())
	assert.False(t, domain.ProcessResult{ExitCode: 1}.Success())
}
