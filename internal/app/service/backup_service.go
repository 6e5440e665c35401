package service

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/mapaddress-backend/internal/metrics"
	"github.com/ikkim/mapaddress-backend/pkg/logger"
	"github.com/ikkim/mapaddress-backend/pkg/util"
)

// ObjectStore receives backup files.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type BackupService interface {
	// Export renders every stored address as an XLSX workbook.
	Export(ctx context.Context) ([]byte, error)
	// Backup uploads an export and returns its object URL.
	Backup(ctx context.Context) (string, error)
}

type backupService struct {
	addresses AddressService
	store     ObjectStore
	prefix    string
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewBackupService builds the export service. store and m may be nil, in
// which case Backup fails and nothing is recorded.
func NewBackupService(addresses AddressService, store ObjectStore, prefix string, m *metrics.Metrics) BackupService {
	return &backupService{
		addresses: addresses,
		store:     store,
		prefix:    prefix,
		metrics:   m,
		now:       time.Now,
	}
}

func (s *backupService) Export(ctx context.Context) ([]byte, error) {
	addresses, err := s.addresses.ListAddresses(ctx)
	if err != nil {
		return nil, err
	}

	buf, err := util.WriteAddressSheet(addresses)
	if err != nil {
		logger.Error("Failed to render address export", err)
		return nil, err
	}

	logger.Debug("Address export rendered", map[string]interface{}{
		"rows":  len(addresses),
		"bytes": buf.Len(),
	})
	return buf.Bytes(), nil
}

func (s *backupService) Backup(ctx context.Context) (string, error) {
	url, err := s.backup(ctx)
	if s.metrics != nil {
		if err != nil {
			s.metrics.BackupsTotal.WithLabelValues("failure").Inc()
		} else {
			s.metrics.BackupsTotal.WithLabelValues("success").Inc()
			s.metrics.LastBackupSuccess.SetToCurrentTime()
		}
	}
	return url, err
}

func (s *backupService) backup(ctx context.Context) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("backup storage is not configured")
	}

	data, err := s.Export(ctx)
	if err != nil {
		return "", err
	}

	key := path.Join(s.prefix, fmt.Sprintf("addresses-%s-%s.xlsx",
		s.now().UTC().Format("20060102T150405Z"), uuid.NewString()[:8]))

	url, err := s.store.Put(ctx, key, util.XLSXContentType, data)
	if err != nil {
		logger.Error("Failed to upload address backup", err, map[string]interface{}{
			"key": key,
		})
		return "", err
	}

	logger.Info("Address backup uploaded", map[string]interface{}{
		"key":   key,
		"bytes": len(data),
	})
	return url, nil
}
