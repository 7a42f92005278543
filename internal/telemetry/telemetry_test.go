package telemetry_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/automerch/internal/telemetry"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSetup_Disabled(t *testing.T) {
	t.Parallel()

	shutdown, err := telemetry.Setup(context.Background(), telemetry.Config{}, quietLogger())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_Enabled(t *testing.T) {
	// Installs global providers; not parallel.
	shutdown, err := telemetry.Setup(context.Background(), telemetry.Config{
		Endpoint:    "127.0.0.1:4317",
		ServiceName: "automerch-test",
		Version:     "test",
		Insecure:    true,
	}, quietLogger())
	require.NoError(t, err)

	// Nothing is listening; shutdown must still return within the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = shutdown(ctx)
}
