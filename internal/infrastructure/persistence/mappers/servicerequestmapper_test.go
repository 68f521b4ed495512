package mappers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srdashboard/internal/domain/servicerequest"
	vo "srdashboard/internal/domain/servicerequest/valueobjects"
	"srdashboard/internal/domain/user"
	"srdashboard/internal/infrastructure/persistence/models"
)

func TestServiceRequestMapper_RoundTrip(t *testing.T) {
	now := time.Date(2026, 2, 3, 4, 5, 6, 789000000, time.UTC)
	closed := now.Add(2 * time.Hour)

	sr, err := servicerequest.NewServiceRequest("sr_abc", servicerequest.Draft{
		ServiceNumber:         "SR-1",
		Node:                  "KDY-02",
		Status:                vo.StatusClosed,
		ClosedDate:            &closed,
		ResponsePersonHuawei:  "Chen",
		ResponsePersonMobitel: "Nimal",
		Description:           `said "hello", then left`,
	}, "/uploads/a.pdf", user.Actor{ID: 4, Username: "huawei", Role: user.RoleUser}, now)
	require.NoError(t, err)
	sr.SetID(9)

	m := NewServiceRequestMapper()
	model := m.ToModel(sr)

	assert.Equal(t, uint(9), model.ID)
	assert.Equal(t, "closed", model.Status)
	assert.Equal(t, now.UnixMilli(), model.CreatedAt)
	require.NotNil(t, model.ClosedDate)
	assert.Equal(t, closed.UnixMilli(), *model.ClosedDate)

	back, err := m.ToDomain(model)
	require.NoError(t, err)
	assert.Equal(t, sr.Draft(), back.Draft())
	assert.Equal(t, sr.RCAFilePath(), back.RCAFilePath())
	assert.Equal(t, sr.CreatedAt(), back.CreatedAt())
	assert.Equal(t, sr.UpdatedBy(), back.UpdatedBy())
	assert.Empty(t, back.PullEvents())
}

func TestServiceRequestMapper_ToDomainRejectsBadRow(t *testing.T) {
	m := NewServiceRequestMapper()

	_, err := m.ToDomain(&models.ServiceRequestModel{ID: 1, SID: "sr_x", Status: "pending"})
	assert.Error(t, err)

	got, err := m.ToDomain(nil)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
