package adapters

import (
	"bytes"
	"context"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/adapters/storage"
	campaignsvc "github.com/covenantOS/serviceline-dashboard/internal/campaigns/management"
)

// CampaignReportStore keeps campaign reports in object storage.
type CampaignReportStore struct {
	storage storage.StorageService
	bucket  string
}

// NewCampaignReportStore creates a report store writing into bucket.
func NewCampaignReportStore(storageSvc storage.StorageService, bucket string) *CampaignReportStore {
	return &CampaignReportStore{storage: storageSvc, bucket: bucket}
}

// PutReport uploads a generated report under key.
func (s *CampaignReportStore) PutReport(ctx context.Context, key string, data []byte, contentType string) error {
	if err := s.storage.ValidateContentType(contentType); err != nil {
		return err
	}
	if err := s.storage.ValidateFileSize(int64(len(data))); err != nil {
		return err
	}
	return s.storage.PutObject(ctx, s.bucket, key, contentType, bytes.NewReader(data), int64(len(data)))
}

// ReportURL returns a presigned download link for key.
func (s *CampaignReportStore) ReportURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	presigned, err := s.storage.GenerateDownloadURL(ctx, s.bucket, key, expiry)
	if err != nil {
		return "", err
	}
	return presigned.URL, nil
}

// Compile-time check that CampaignReportStore implements campaigns/management.ReportStore.
var _ campaignsvc.ReportStore = (*CampaignReportStore)(nil)
