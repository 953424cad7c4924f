//go:build integration

package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { ctr.Terminate(ctx) }) //nolint:errcheck

	addr, err := ctr.Endpoint(ctx, "")
	require.NoError(t, err)
	return addr
}

func TestRedisCounter(t *testing.T) {
	ctx := context.Background()
	c, err := NewRedisCounter(ctx, startRedis(t))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() }) //nolint:errcheck

	require.NoError(t, c.Record(ctx, Event{RecordID: "r1", Type: View, Time: at(2024, 1, 5)}))
	require.NoError(t, c.Record(ctx, Event{RecordID: "r1", Type: Download, Time: at(2024, 2, 5)}))
	require.NoError(t, c.Record(ctx, Event{RecordID: "r1", Type: Download, Time: at(2024, 2, 6)}))

	months, err := c.Months(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, []Bucket{
		{Month: "2024-01", Stats: Stats{Views: 1}},
		{Month: "2024-02", Stats: Stats{Downloads: 2}},
	}, months)

	agg, err := Aggregate(ctx, c, "r1", []string{"r2"})
	require.NoError(t, err)
	assert.Equal(t, Stats{Views: 1, Downloads: 2}, agg.AllVersions)
}
