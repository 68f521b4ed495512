package usecases

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srdashboard/internal/application/servicerequest/export"
	"srdashboard/internal/domain/servicerequest"
	"srdashboard/internal/shared/logger"
)

func TestExportServiceRequestsUseCase_Execute(t *testing.T) {
	repo := newMemoryRepository()
	seedRequest(t, repo, "SR-1", "")
	seedRequest(t, repo, "SR-2", "/uploads/b.pdf")

	uc := NewExportServiceRequestsUseCase(repo, newMockDirectory(), export.NewCSVEncoder(time.UTC), logger.NewNopLogger())
	uc.now = fixedClock

	file, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "service-requests-2026-04-20.csv", file.FileName)
	assert.Equal(t, "text/csv", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "SR-2", records[1][0])
	assert.Equal(t, "/uploads/b.pdf", records[1][9])
	assert.Equal(t, "ns6", records[1][12])
	assert.Equal(t, "SR-1", records[2][0])
}

func TestExportServiceRequestsUseCase_Execute_Error(t *testing.T) {
	repo := &mockServiceRequestRepository{
		ListAllFunc: func(ctx context.Context) ([]*servicerequest.ServiceRequest, error) {
			return nil, fmt.Errorf("failed to list service requests: closed")
		},
	}
	uc := NewExportServiceRequestsUseCase(repo, newMockDirectory(), export.NewCSVEncoder(nil), logger.NewNopLogger())

	_, err := uc.Execute(context.Background())
	assert.Error(t, err)
}
