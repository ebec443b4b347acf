package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"alcyxob/fitplan/internal/backup"
	"alcyxob/fitplan/internal/cache"
	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/metrics"
	"alcyxob/fitplan/internal/service"
	"alcyxob/fitplan/internal/storage"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupService_ExportImport(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	m := metrics.NewTestManager()
	archive := newMemoryArchive()
	codec := backup.NewCodec(store).WithClock(func() time.Time { return renderDay })
	svc := service.NewBackupService(codec, m, archive, nil)

	require.NoError(t, store.Workouts().Create(ctx, strengthPlan("Alice")))
	require.NoError(t, store.Clients().Create(ctx, &domain.Client{Name: "Alice"}))

	file, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "backup-2026-10-18.json", file.Filename)
	assert.True(t, archive.has(storage.BackupKey(file.Filename)))
	assert.NotEmpty(t, file.ArchiveURL)

	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(file.Data, &env))
	assert.Contains(t, env, "workouts")
	assert.Contains(t, env, "clients")

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.WorkoutsCount)
	require.NotNil(t, stats.LastBackup)
	assert.True(t, stats.LastBackup.Equal(renderDay))

	summary, err := svc.Import(ctx, []byte(`{"workouts":[],"clients":[{"name":"Bob"}]}`))
	require.NoError(t, err)
	assert.Equal(t, &service.ImportSummary{Workouts: 0, Clients: 1}, summary)

	clients, err := store.Clients().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Bob", clients[0].Name)

	summary, err = svc.Import(ctx, file.Data)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Workouts)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterBackupImports.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterBackupExports))
}

func TestBackupService_InvalidImportLeavesStore(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	m := metrics.NewTestManager()
	svc := service.NewBackupService(backup.NewCodec(store), m, nil, nil)
	require.NoError(t, store.Clients().Create(ctx, &domain.Client{Name: "Alice"}))

	_, err := svc.Import(ctx, []byte(`{"workouts":{},"clients":[]}`))
	assert.ErrorIs(t, err, backup.ErrInvalidFormat)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterBackupImports.WithLabelValues("invalid")))

	clients, err := store.Clients().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}

func TestBackupService_ImportInvalidatesRenderedPlans(t *testing.T) {
	ctx := context.Background()
	renderCache := cache.NewRenderCache(1, time.Hour)
	f := newDocumentFixture(t, renderCache)
	svc := service.NewBackupService(backup.NewCodec(f.store), metrics.NewTestManager(), nil, renderCache)

	backupWith := func(description string) []byte {
		return []byte(`{"workouts":[{"id":"A","coachName":"Sam","clientName":"Alice","workoutType":"Strength",` +
			`"duration":4,"description":"` + description + `","weeks":[]}],"clients":[]}`)
	}

	_, err := svc.Import(ctx, backupWith("FIRSTBACKUP"))
	require.NoError(t, err)
	first, err := f.documents.RenderWorkout(ctx, "A")
	require.NoError(t, err)
	assert.Contains(t, string(first.Data), "FIRSTBACKUP")
	assert.EqualValues(t, 1, renderCache.EntryCount())

	_, err = svc.Import(ctx, backupWith("SECONDBACKUP"))
	require.NoError(t, err)
	assert.Zero(t, renderCache.EntryCount())

	w, err := f.store.Workouts().GetByID(ctx, "A")
	require.NoError(t, err)
	assert.EqualValues(t, 1, w.Version)

	second, err := f.documents.RenderWorkout(ctx, "A")
	require.NoError(t, err)
	assert.False(t, second.Cached)
	assert.Contains(t, string(second.Data), "SECONDBACKUP")
	assert.NotContains(t, string(second.Data), "FIRSTBACKUP")
}
