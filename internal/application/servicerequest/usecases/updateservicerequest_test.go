package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srdashboard/internal/domain/servicerequest"
	vo "srdashboard/internal/domain/servicerequest/valueobjects"
	"srdashboard/internal/shared/errors"
	"srdashboard/internal/shared/logger"
)

func seedRequest(t *testing.T, repo *memoryRepository, sn, rcaPath string) *servicerequest.ServiceRequest {
	t.Helper()
	sr, err := servicerequest.NewServiceRequest("sr_"+sn, servicerequest.Draft{ServiceNumber: sn, Node: "KDY-02"}, rcaPath, testAdmin, testNow.Add(-time.Hour))
	require.NoError(t, err)
	sr.PullEvents()
	require.NoError(t, repo.Create(context.Background(), sr))
	return sr
}

type updateFixture struct {
	repo *memoryRepository
	att  *mockAttachments
	pub  *mockPublisher
	tx   *mockTransactor
	uc   *UpdateServiceRequestUseCase
}

func newUpdateFixture() *updateFixture {
	f := &updateFixture{
		repo: newMemoryRepository(),
		att:  &mockAttachments{},
		pub:  &mockPublisher{},
		tx:   &mockTransactor{},
	}
	f.uc = NewUpdateServiceRequestUseCase(f.repo, newMockDirectory(), f.att, f.tx, f.pub, logger.NewNopLogger())
	f.uc.now = fixedClock
	return f
}

func TestUpdateServiceRequestUseCase_Execute_StatusChange(t *testing.T) {
	f := newUpdateFixture()
	sr := seedRequest(t, f.repo, "SR-1", "")
	closed := testNow

	result, err := f.uc.Execute(context.Background(), UpdateServiceRequestCommand{
		SID:    sr.SID(),
		Fields: RequestFields{ServiceNumber: "SR-1", Status: "closed", ClosedDate: &closed},
		Actor:  testUser,
	})
	require.NoError(t, err)

	assert.Equal(t, "closed", result.Request.Status)
	assert.Equal(t, "ns6", result.Request.CreatedBy)
	assert.Equal(t, "mobitel", result.Request.UpdatedBy)
	assert.Equal(t, testNow, result.Request.UpdatedAt)
	assert.Empty(t, result.Request.Node, "fields missing from the replacement are cleared")
	assert.Equal(t, 1, f.tx.calls)

	require.Len(t, result.Events, 1)
	changed, ok := result.Events[0].(servicerequest.StatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, vo.StatusOpen, changed.OldStatus)
	assert.Equal(t, vo.StatusClosed, changed.NewStatus)
	assert.Equal(t, "mobitel", changed.ActorUsername)
	assert.Equal(t, []string{servicerequest.EventTypeStatusChanged}, f.pub.eventTypes())
}

func TestUpdateServiceRequestUseCase_Execute_SameStatusEmitsNothing(t *testing.T) {
	f := newUpdateFixture()
	sr := seedRequest(t, f.repo, "SR-1", "")

	result, err := f.uc.Execute(context.Background(), UpdateServiceRequestCommand{
		SID:    sr.SID(),
		Fields: RequestFields{ServiceNumber: "SR-1", Status: "open", Remark: "still down"},
		Actor:  testAdmin,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Events)
	assert.Empty(t, f.pub.published)
	assert.Equal(t, "still down", result.Request.Remark)
}

func TestUpdateServiceRequestUseCase_Execute_NotFound(t *testing.T) {
	f := newUpdateFixture()

	_, err := f.uc.Execute(context.Background(), UpdateServiceRequestCommand{
		SID:    "sr_missing",
		Fields: RequestFields{ServiceNumber: "SR-1"},
		File:   &FileUpload{Name: "rca.pdf"},
		Actor:  testAdmin,
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
	assert.Equal(t, []string{"/uploads/stored-rca.pdf"}, f.att.removed)
}

func TestUpdateServiceRequestUseCase_Execute_ReplacesAttachment(t *testing.T) {
	f := newUpdateFixture()
	sr := seedRequest(t, f.repo, "SR-1", "/uploads/old.pdf")

	result, err := f.uc.Execute(context.Background(), UpdateServiceRequestCommand{
		SID:    sr.SID(),
		Fields: RequestFields{ServiceNumber: "SR-1"},
		File:   &FileUpload{Name: "new.pdf"},
		Actor:  testAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/stored-new.pdf", result.Request.RCAFilePath)
	assert.Equal(t, []string{"attach:/uploads/stored-new.pdf", "remove:/uploads/old.pdf"}, f.att.calls)
}

func TestUpdateServiceRequestUseCase_Execute_KeepsAttachmentWithoutFile(t *testing.T) {
	f := newUpdateFixture()
	sr := seedRequest(t, f.repo, "SR-1", "/uploads/old.pdf")

	result, err := f.uc.Execute(context.Background(), UpdateServiceRequestCommand{
		SID:    sr.SID(),
		Fields: RequestFields{ServiceNumber: "SR-1"},
		Actor:  testAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/old.pdf", result.Request.RCAFilePath)
	assert.Empty(t, f.att.calls)
}

func TestUpdateServiceRequestUseCase_Execute_ClearsAttachment(t *testing.T) {
	f := newUpdateFixture()
	sr := seedRequest(t, f.repo, "SR-1", "/uploads/old.pdf")
	empty := ""

	result, err := f.uc.Execute(context.Background(), UpdateServiceRequestCommand{
		SID:    sr.SID(),
		Fields: RequestFields{ServiceNumber: "SR-1", RCAFilePath: &empty},
		Actor:  testAdmin,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Request.RCAFilePath)
	assert.Equal(t, []string{"/uploads/old.pdf"}, f.att.removed)
}

func TestUpdateServiceRequestUseCase_Execute_WriteFailureKeepsOldFile(t *testing.T) {
	f := newUpdateFixture()
	sr := seedRequest(t, f.repo, "SR-1", "/uploads/old.pdf")

	repo := &mockServiceRequestRepository{
		GetBySIDFunc: f.repo.GetBySID,
		UpdateFunc: func(ctx context.Context, sr *servicerequest.ServiceRequest) error {
			return fmt.Errorf("failed to update service request: deadlock")
		},
	}
	uc := NewUpdateServiceRequestUseCase(repo, newMockDirectory(), f.att, f.tx, f.pub, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), UpdateServiceRequestCommand{
		SID:    sr.SID(),
		Fields: RequestFields{ServiceNumber: "SR-1"},
		File:   &FileUpload{Name: "new.pdf"},
		Actor:  testAdmin,
	})
	require.Error(t, err)
	assert.Equal(t, []string{"/uploads/stored-new.pdf"}, f.att.removed)
	assert.Empty(t, f.pub.published)
}

func TestUpdateServiceRequestUseCase_Execute_DuplicateNumber(t *testing.T) {
	f := newUpdateFixture()
	seedRequest(t, f.repo, "SR-1", "")
	second := seedRequest(t, f.repo, "SR-2", "")

	_, err := f.uc.Execute(context.Background(), UpdateServiceRequestCommand{
		SID:    second.SID(),
		Fields: RequestFields{ServiceNumber: "SR-1"},
		Actor:  testAdmin,
	})
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))

	result, err := f.uc.Execute(context.Background(), UpdateServiceRequestCommand{
		SID:    second.SID(),
		Fields: RequestFields{ServiceNumber: "sr-1"},
		Actor:  testAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "sr-1", result.Request.ServiceNumber)
}

func TestUpdateServiceRequestUseCase_Execute_ValidationBeforeStorage(t *testing.T) {
	f := newUpdateFixture()
	sr := seedRequest(t, f.repo, "SR-1", "")

	_, err := f.uc.Execute(context.Background(), UpdateServiceRequestCommand{
		SID:    sr.SID(),
		Fields: RequestFields{ServiceNumber: "SR-1", Status: "closed"},
		File:   &FileUpload{Name: "new.pdf"},
		Actor:  testAdmin,
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Empty(t, f.att.calls)
	assert.Zero(t, f.tx.calls)
}

func TestUpdateServiceRequestUseCase_Execute_DirectoryFailureFallsBack(t *testing.T) {
	f := newUpdateFixture()
	sr := seedRequest(t, f.repo, "SR-1", "")
	dir := newMockDirectory()
	dir.err = fmt.Errorf("db down")
	uc := NewUpdateServiceRequestUseCase(f.repo, dir, f.att, f.tx, f.pub, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), UpdateServiceRequestCommand{
		SID:    sr.SID(),
		Fields: RequestFields{ServiceNumber: "SR-1"},
		Actor:  testUser,
	})
	require.NoError(t, err)
	assert.Equal(t, "mobitel", result.Request.UpdatedBy)
}

func TestUpdateServiceRequestUseCase_Execute_AttachmentOwnedByAnotherRequest(t *testing.T) {
	f := newUpdateFixture()
	ctx := context.Background()
	owner := seedRequest(t, f.repo, "SR-A", "/uploads/a-rca.pdf")
	other := seedRequest(t, f.repo, "SR-B", "")
	shared := "/uploads/a-rca.pdf"

	_, err := f.uc.Execute(ctx, UpdateServiceRequestCommand{
		SID:    other.SID(),
		Fields: RequestFields{ServiceNumber: "SR-B", RCAFilePath: &shared},
		Actor:  testAdmin,
	})
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))
	assert.Empty(t, other.RCAFilePath())
	assert.Empty(t, f.pub.published)

	del := NewDeleteServiceRequestUseCase(f.repo, f.att, f.tx, logger.NewNopLogger())
	_, err = del.Execute(ctx, DeleteServiceRequestCommand{SID: other.SID(), Actor: testAdmin})
	require.NoError(t, err)

	assert.Empty(t, f.att.removed, "deleting SR-B must not touch SR-A's attachment")
	assert.Equal(t, "/uploads/a-rca.pdf", owner.RCAFilePath())
}

func TestUpdateServiceRequestUseCase_Execute_ReferencedAttachmentChecks(t *testing.T) {
	f := newUpdateFixture()
	sr := seedRequest(t, f.repo, "SR-1", "/uploads/old.pdf")
	f.att.missing = map[string]bool{"/uploads/gone.pdf": true}

	t.Run("missing file", func(t *testing.T) {
		gone := "/uploads/gone.pdf"
		_, err := f.uc.Execute(context.Background(), UpdateServiceRequestCommand{
			SID:    sr.SID(),
			Fields: RequestFields{ServiceNumber: "SR-1", RCAFilePath: &gone},
			Actor:  testAdmin,
		})
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
		assert.Equal(t, "/uploads/old.pdf", sr.RCAFilePath())
	})

	t.Run("own attachment", func(t *testing.T) {
		same := "/uploads/old.pdf"
		result, err := f.uc.Execute(context.Background(), UpdateServiceRequestCommand{
			SID:    sr.SID(),
			Fields: RequestFields{ServiceNumber: "SR-1", RCAFilePath: &same},
			Actor:  testAdmin,
		})
		require.NoError(t, err)
		assert.Equal(t, same, result.Request.RCAFilePath)
	})

	t.Run("unowned upload", func(t *testing.T) {
		fresh := "/uploads/1760000000000-new.pdf"
		result, err := f.uc.Execute(context.Background(), UpdateServiceRequestCommand{
			SID:    sr.SID(),
			Fields: RequestFields{ServiceNumber: "SR-1", RCAFilePath: &fresh},
			Actor:  testAdmin,
		})
		require.NoError(t, err)
		assert.Equal(t, fresh, result.Request.RCAFilePath)
		assert.Equal(t, []string{"/uploads/old.pdf"}, f.att.removed)
	})

	assert.Empty(t, f.att.attached)
}
