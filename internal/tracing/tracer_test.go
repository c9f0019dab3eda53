package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.False(t, cfg.Enabled)
	require.Equal(t, "file", cfg.Exporter)
	require.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	require.Equal(t, 1.0, cfg.SampleRate)
	require.Equal(t, "strata", cfg.ServiceName)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	require.Error(t, Config{Enabled: true, Exporter: "file"}.Validate())
	require.Error(t, Config{Enabled: true, Exporter: "zipkin"}.Validate())
	require.Error(t, Config{Enabled: true, Exporter: "none", SampleRate: 2}.Validate())
	require.NoError(t, Config{Enabled: true, Exporter: "stdout", SampleRate: 0.5}.Validate())
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(Config{})
	require.NoError(t, err)
	require.False(t, provider.Enabled())

	_, span := provider.Tracer().Start(context.Background(), SpanOpen)
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_FileExporterWritesSpans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "traces.jsonl")

	provider, err := NewProvider(Config{
		Enabled:     true,
		Exporter:    "file",
		FilePath:    path,
		SampleRate:  1.0,
		ServiceName: "strata-test",
	})
	require.NoError(t, err)
	require.True(t, provider.Enabled())

	ctx, parent := provider.Tracer().Start(context.Background(), SpanOpen)
	parent.SetAttributes(attribute.String(AttrPanelAddress, "Panel_Attribute"))
	_, child := provider.Tracer().Start(ctx, SpanPreload)
	child.SetStatus(codes.Error, "load failed")
	child.End()
	parent.End()

	require.NoError(t, provider.Shutdown(context.Background()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records := map[string]SpanRecord{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec SpanRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records[rec.Name] = rec
	}
	require.Len(t, records, 2)

	open := records[SpanOpen]
	require.Equal(t, "Panel_Attribute", open.Attributes[AttrPanelAddress])
	require.Empty(t, open.ParentSpanID)

	preload := records[SpanPreload]
	require.Equal(t, "ERROR", preload.Status)
	require.Equal(t, open.SpanID, preload.ParentSpanID)
}

func TestNewProvider_RejectsInvalidConfig(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "file"})
	require.Error(t, err)
}

func TestFileExporter_ShutdownIdempotent(t *testing.T) {
	exp, err := NewFileExporter(filepath.Join(t.TempDir(), "t.jsonl"))
	require.NoError(t, err)
	require.NoError(t, exp.Shutdown(context.Background()))
	require.NoError(t, exp.Shutdown(context.Background()))
}
