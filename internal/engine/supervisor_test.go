package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dominicbrandes/aztec-exchange/internal/model"
)

// writeFakeEngine drops a tiny shell script that behaves like a well-behaved
// engine subprocess: for every JSON line on stdin it writes back a
// success:true envelope echoing the request's req_id, until stdin closes or
// it receives a line containing "shutdown", at which point it exits 0.
func writeFakeEngine(t *testing.T, dir string) string {
	t.Helper()
	script := `#!/bin/sh
while IFS= read -r line; do
  reqid=$(echo "$line" | sed -n 's/.*"req_id":"\([^"]*\)".*/\1/p')
  case "$line" in
    *shutdown*)
      echo "{\"success\":true,\"data\":{},\"req_id\":\"$reqid\"}"
      exit 0
      ;;
    *)
      echo "{\"success\":true,\"data\":{\"timestamp_ns\":1},\"req_id\":\"$reqid\"}"
      ;;
  esac
done
`
	path := filepath.Join(dir, "fake-engine.sh")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestSupervisor_StartStopLifecycle(t *testing.T) {
	dir := t.TempDir()
	enginePath := writeFakeEngine(t, dir)

	sup := NewSupervisor(zap.NewNop(), enginePath, filepath.Join(dir, "data"), filepath.Join(dir, "events.log"), filepath.Join(dir, "snapshots"))

	require.NoError(t, sup.Start(context.Background()))
	assert.True(t, sup.IsAlive())

	client := sup.Client()
	require.NotNil(t, client)

	ts, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.NanosTimestamp(1), ts)

	require.NoError(t, sup.Stop(context.Background()))
	assert.False(t, sup.IsAlive())
}

func TestSupervisor_StartFailsWhenBinaryMissing(t *testing.T) {
	dir := t.TempDir()
	sup := NewSupervisor(zap.NewNop(), filepath.Join(dir, "does-not-exist"), filepath.Join(dir, "data"), filepath.Join(dir, "events.log"), filepath.Join(dir, "snapshots"))
	err := sup.Start(context.Background())
	require.Error(t, err)
}

func TestSupervisor_StopWithoutStartIsNoop(t *testing.T) {
	sup := NewSupervisor(zap.NewNop(), "/bin/true", "/tmp", "/tmp/events.log", "/tmp/snapshots")
	require.NoError(t, sup.Stop(context.Background()))
}

func TestSupervisor_StopKillsHungProcess(t *testing.T) {
	dir := t.TempDir()
	script := `#!/bin/sh
while IFS= read -r line; do
  : # never responds, simulating a wedged engine
done
`
	path := filepath.Join(dir, "wedged-engine.sh")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))

	sup := NewSupervisor(zap.NewNop(), path, filepath.Join(dir, "data"), filepath.Join(dir, "events.log"), filepath.Join(dir, "snapshots"))
	require.NoError(t, sup.Start(context.Background()))
	assert.True(t, sup.IsAlive())

	stopDone := make(chan error, 1)
	go func() { stopDone <- sup.Stop(context.Background()) }()

	select {
	case err := <-stopDone:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Stop did not return within timeout; process was not force-killed")
	}
	assert.False(t, sup.IsAlive())
}
