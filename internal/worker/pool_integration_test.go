//go:build integration

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"tallerpro/internal/infra"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func redisDePrueba(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	c, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	url, err := c.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(url)
	require.NoError(t, err)
	return rdb
}

func TestPool_FallosVanALaDLQ(t *testing.T) {
	rdb := redisDePrueba(t)
	ctx := context.Background()
	d := NewDispatcher(rdb)

	job := EmailJob{Tipo: TipoFactura, ID: uuid.New(), Para: "x@example.com"}
	require.NoError(t, d.EnqueueEmail(ctx, job))

	raw, err := rdb.RPop(ctx, QueueEmail).Result()
	require.NoError(t, err)

	w := NewEmailWorker(&stubDocs{err: errors.New("sin datos")}, &stubMailer{})
	processJob(ctx, rdb, w, QueueEmail, raw)

	n, err := DLQLength(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	fallidos, err := Fallidos(ctx, rdb, QueueEmail, 10)
	require.NoError(t, err)
	require.Len(t, fallidos, 1)
	assert.Equal(t, jobTypeEmail, fallidos[0].Tipo)
	assert.Equal(t, 1, fallidos[0].Intentos)
	assert.Contains(t, fallidos[0].Motivo, "sin datos")

	var parked EmailJob
	require.NoError(t, json.Unmarshal(fallidos[0].Payload, &parked))
	assert.Equal(t, job, parked)
}

func TestPool_PayloadIlegibleTambienSeAparca(t *testing.T) {
	rdb := redisDePrueba(t)
	ctx := context.Background()

	processJob(ctx, rdb, NewEmailWorker(&stubDocs{}, &stubMailer{}), QueueEmail, "no es json")

	fallidos, err := Fallidos(ctx, rdb, QueueEmail, 10)
	require.NoError(t, err)
	require.Len(t, fallidos, 1)
	assert.Empty(t, fallidos[0].Tipo)
	assert.False(t, fallidos[0].FalloEn.IsZero())
}

func TestPool_ConsumeLaCola(t *testing.T) {
	rdb := redisDePrueba(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := &stubMailer{}
	StartWorkerPool(ctx, rdb, 1, NewEmailWorker(&stubDocs{}, mailer))
	require.NoError(t, NewDispatcher(rdb).EnqueueEmail(ctx, EmailJob{Tipo: TipoInforme, ID: uuid.New(), Para: "x@example.com"}))

	assert.Eventually(t, func() bool {
		n, err := rdb.LLen(ctx, QueueEmail).Result()
		return err == nil && n == 0
	}, 10*time.Second, 100*time.Millisecond)
	n, err := DLQLength(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	assert.Zero(t, n)
}
