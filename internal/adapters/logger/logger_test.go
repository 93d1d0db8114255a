package logger_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/gryla/internal/adapters/logger"
	"go.trai.ch/gryla/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf)

	log.Info("compiled lib/a.c")
	log.Warn("could not remove lib/b.o")

	out := buf.String()
	assert.Contains(t, out, "compiled lib/a.c\n")
	assert.Contains(t, out, "! could not remove lib/b.o\n")
}

func TestLogger_ErrorNil(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf)

	log.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_SetOutput(t *testing.T) {
	var first, second bytes.Buffer
	log := logger.NewWithWriter(&first)

	log.SetOutput(&second)
	log.Info("hello")

	assert.Empty(t, first.String())
	assert.Contains(t, second.String(), "hello")
}

func TestLogger_ErrorChain(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf)

	err := zerr.Wrap(zerr.Wrap(errors.New("no such file"), "cannot read lib"), "build failed")
	log.Error(err)

	out := buf.String()
	assert.Contains(t, out, "Error: build failed")
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, "→ cannot read lib")
	assert.Contains(t, out, "→ no such file")
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "standard error",
			err:  errors.New("plain"),
			want: "Error: plain",
		},
		{
			name: "zerr with metadata",
			err:  zerr.With(zerr.With(zerr.New("link failed"), "library", "libgryla.so"), "exit_code", 1),
			want: "Error: link failed (exit_code=1, library=libgryla.so)",
		},
		{
			name: "multi-line message",
			err:  zerr.Wrap(errors.New("cause"), "first\nsecond"),
			want: "Error: first\n       second\n\n  Caused by:\n    → cause",
		},
		{
			name: "typed engine error ends the chain",
			err:  zerr.Wrap(&domain.CompileError{Source: "lib/b.c", ExitCode: 1}, "build failed"),
			want: "Error: build failed\n\n  Caused by:\n    → compile lib/b.c: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatError(tt.err))
		})
	}
}

func TestPrettyHandler_Attrs(t *testing.T) {
	var buf bytes.Buffer
	h := logger.NewPrettyHandler(&buf, nil)

	log := slog.New(h.WithGroup("build").WithAttrs([]slog.Attr{slog.String("source", "lib/a.c")}))
	log.Info("compiling", "jobs", 4)

	assert.Equal(t, "compiling build.source=lib/a.c build.jobs=4\n", buf.String())
}

func TestPrettyHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	h := logger.NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})

	log := slog.New(h)
	log.Info("hidden")
	log.Warn("shown")

	require.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "debug", want: slog.LevelDebug},
		{in: "WARN", want: slog.LevelWarn},
		{in: " error ", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logger.ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), logger.LevelEnv)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_WarnLevelHidesInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithLevel(&buf, slog.LevelWarn)

	log.Info("nothing to do")
	log.Warn("failed to save link state")

	assert.NotContains(t, buf.String(), "nothing to do")
	assert.Contains(t, buf.String(), "failed to save link state")

	var other bytes.Buffer
	log.SetOutput(&other)
	log.Info("still hidden")
	assert.Empty(t, other.String())
}
