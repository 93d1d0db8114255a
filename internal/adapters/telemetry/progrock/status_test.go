package progrock_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vprogrock "github.com/vito/progrock"
	"go.trai.ch/gryla/internal/adapters/telemetry/progrock"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestStatusWriter_PrintsTerminalVerticesOnce(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	w := progrock.NewStatusWriter(&buf)

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	failure := "exit status 1"

	running := &vprogrock.Vertex{Id: "1", Name: "compile lib/a.c", Started: timestamppb.New(start)}
	require.NoError(t, w.WriteStatus(&vprogrock.StatusUpdate{Vertexes: []*vprogrock.Vertex{running}}))
	assert.Empty(t, buf.String())

	done := &vprogrock.Vertex{
		Id:        "1",
		Name:      "compile lib/a.c",
		Started:   timestamppb.New(start),
		Completed: timestamppb.New(start.Add(1500 * time.Millisecond)),
	}
	failed := &vprogrock.Vertex{
		Id:        "2",
		Name:      "compile lib/b.c",
		Completed: timestamppb.New(start),
		Error:     &failure,
	}
	cached := &vprogrock.Vertex{Id: "3", Name: "compile lib/c.c", Cached: true}

	update := &vprogrock.StatusUpdate{Vertexes: []*vprogrock.Vertex{done, failed, cached}}
	require.NoError(t, w.WriteStatus(update))
	require.NoError(t, w.WriteStatus(update))

	assert.Equal(t,
		"✓ compile lib/a.c (1.5s)\n"+
			"✗ compile lib/b.c: exit status 1\n"+
			"• compile lib/c.c (up-to-date)\n",
		buf.String())
	assert.NoError(t, w.Close())
}

type captureWriter struct {
	updates []*vprogrock.StatusUpdate
	closed  bool
}

func (c *captureWriter) WriteStatus(u *vprogrock.StatusUpdate) error {
	c.updates = append(c.updates, u)
	return nil
}

func (c *captureWriter) Close() error {
	c.closed = true
	return nil
}

func (c *captureWriter) vertex(name string) *vprogrock.Vertex {
	var last *vprogrock.Vertex
	for _, u := range c.updates {
		for _, v := range u.Vertexes {
			if v.Name == name {
				last = v
			}
		}
	}
	return last
}

func TestRecorder_SpanLifecycle(t *testing.T) {
	w := &captureWriter{}
	rec := progrock.NewRecorder(w, nil)

	_, span := rec.Start(t.Context(), "link libgryla.so")
	_, err := span.Write([]byte("ld: warning\n"))
	require.NoError(t, err)
	span.RecordError(assert.AnError)
	span.End()
	span.End()

	v := w.vertex("link libgryla.so")
	require.NotNil(t, v)
	assert.NotNil(t, v.Completed)
	require.NotNil(t, v.Error)

	require.NoError(t, rec.Close())
	assert.True(t, w.closed)
}

func TestRecorder_Cached(t *testing.T) {
	w := &captureWriter{}
	rec := progrock.NewRecorder(w, nil)

	_, span := rec.Start(t.Context(), "compile lib/a.c")
	span.MarkCached()
	span.End()

	v := w.vertex("compile lib/a.c")
	require.NotNil(t, v)
	assert.True(t, v.Cached)
	assert.Nil(t, v.Error)
}
