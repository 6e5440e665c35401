package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ikkim/mapaddress-backend/internal/metrics"
	"github.com/ikkim/mapaddress-backend/pkg/util"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	objects map[string][]byte
	err     error
}

func (m *memoryStore) Put(_ context.Context, key, _ string, body []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.objects[key] = body
	return "s3://bucket/" + key, nil
}

func TestBackupService_ExportAndBackup(t *testing.T) {
	addresses, _ := setupAddressServiceTest(t)
	ctx := context.Background()
	require.NoError(t, addresses.CreateAddress(ctx, validAddress()))

	store := &memoryStore{objects: map[string][]byte{}}
	m := metrics.NewNop()
	svc := NewBackupService(addresses, store, "backups", m).(*backupService)
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	data, err := svc.Export(ctx)
	require.NoError(t, err)
	rows, err := util.ReadAddressSheet(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "user123", rows[0].UserID)

	url, err := svc.Backup(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "s3://bucket/backups/addresses-20260102T030405Z-"))
	assert.Len(t, store.objects, 1)
	assert.InDelta(t, 1, testutil.ToFloat64(m.BackupsTotal.WithLabelValues("success")), 0)
}

func TestBackupService_BackupFailures(t *testing.T) {
	addresses, _ := setupAddressServiceTest(t)
	m := metrics.NewNop()

	_, err := NewBackupService(addresses, nil, "backups", m).Backup(context.Background())
	assert.Error(t, err)

	failing := &memoryStore{err: errors.New("AccessDenied")}
	_, err = NewBackupService(addresses, failing, "backups", m).Backup(context.Background())
	assert.ErrorContains(t, err, "AccessDenied")

	assert.InDelta(t, 2, testutil.ToFloat64(m.BackupsTotal.WithLabelValues("failure")), 0)
}
