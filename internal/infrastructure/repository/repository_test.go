package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"srdashboard/internal/domain/servicerequest"
	vo "srdashboard/internal/domain/servicerequest/valueobjects"
	"srdashboard/internal/domain/user"
	"srdashboard/internal/infrastructure/persistence/models"
	"srdashboard/internal/shared/db"
	apperrors "srdashboard/internal/shared/errors"
	"srdashboard/internal/shared/logger"
)

var (
	testActor = user.Actor{ID: 1, Username: "ns6", Role: user.RoleAdmin}
	baseTime  = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
)

func setupTestDB(t *testing.T) *gorm.DB {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// each pooled connection would otherwise open its own in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(&models.ServiceRequestModel{}, &models.UserModel{}))
	return gdb
}

func newRequest(t *testing.T, serviceNumber string, status vo.Status, createdAt time.Time) *servicerequest.ServiceRequest {
	t.Helper()
	draft := servicerequest.Draft{ServiceNumber: serviceNumber, Status: status}
	if status.IsClosed() {
		closed := createdAt.Add(time.Hour)
		draft.ClosedDate = &closed
	}
	sr, err := servicerequest.NewServiceRequest("sr_"+serviceNumber, draft, "", testActor, createdAt)
	require.NoError(t, err)
	return sr
}

func TestServiceRequestRepository_CreateAndGet(t *testing.T) {
	repo := NewServiceRequestRepository(setupTestDB(t), logger.NewNopLogger())
	ctx := context.Background()

	sr := newRequest(t, "SR-100", vo.StatusOpen, baseTime)
	require.NoError(t, repo.Create(ctx, sr))
	assert.NotZero(t, sr.ID())

	t.Run("by sid", func(t *testing.T) {
		found, err := repo.GetBySID(ctx, sr.SID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, sr.Draft(), found.Draft())
		assert.Equal(t, baseTime, found.CreatedAt())
	})

	t.Run("by service number is case sensitive", func(t *testing.T) {
		found, err := repo.GetByServiceNumber(ctx, "SR-100")
		require.NoError(t, err)
		assert.NotNil(t, found)

		found, err = repo.GetByServiceNumber(ctx, "sr-100")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("missing returns nil", func(t *testing.T) {
		found, err := repo.GetBySID(ctx, "sr_missing")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("duplicate service number is a conflict", func(t *testing.T) {
		dup, err := servicerequest.NewServiceRequest("sr_other", servicerequest.Draft{ServiceNumber: "SR-100"}, "", testActor, baseTime)
		require.NoError(t, err)

		err = repo.Create(ctx, dup)
		require.Error(t, err)
		assert.True(t, apperrors.IsConflictError(err))
	})

	t.Run("different case is a different number", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, newRequest(t, "sr-100", vo.StatusOpen, baseTime)))
	})
}

func TestServiceRequestRepository_UpdateClearsFields(t *testing.T) {
	repo := NewServiceRequestRepository(setupTestDB(t), logger.NewNopLogger())
	ctx := context.Background()

	draft := servicerequest.Draft{ServiceNumber: "SR-200", Node: "CMB-01", Remark: "flapping"}
	sr, err := servicerequest.NewServiceRequest("sr_200", draft, "/uploads/old.pdf", testActor, baseTime)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, sr))

	editor := user.Actor{ID: 2, Username: "mobitel", Role: user.RoleUser}
	closed := baseTime.Add(3 * time.Hour)
	replacement := servicerequest.Draft{ServiceNumber: "SR-200", Status: vo.StatusClosed, ClosedDate: &closed}
	newPath := ""
	_, err = sr.Replace(replacement, &newPath, editor, baseTime.Add(4*time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, sr))

	found, err := repo.GetBySID(ctx, "sr_200")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Empty(t, found.Node())
	assert.Empty(t, found.Remark())
	assert.Empty(t, found.RCAFilePath())
	assert.Equal(t, vo.StatusClosed, found.Status())
	assert.Equal(t, uint(1), found.CreatedBy())
	assert.Equal(t, uint(2), found.UpdatedBy())
	assert.Equal(t, baseTime, found.CreatedAt())
	assert.Equal(t, baseTime.Add(4*time.Hour), found.UpdatedAt())
}

func TestServiceRequestRepository_UpdateToTakenNumber(t *testing.T) {
	repo := NewServiceRequestRepository(setupTestDB(t), logger.NewNopLogger())
	ctx := context.Background()

	first := newRequest(t, "SR-1", vo.StatusOpen, baseTime)
	second := newRequest(t, "SR-2", vo.StatusOpen, baseTime)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	_, err := second.Replace(servicerequest.Draft{ServiceNumber: "SR-1"}, nil, testActor, baseTime)
	require.NoError(t, err)

	err = repo.Update(ctx, second)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
}

func TestServiceRequestRepository_Delete(t *testing.T) {
	repo := NewServiceRequestRepository(setupTestDB(t), logger.NewNopLogger())
	ctx := context.Background()

	sr := newRequest(t, "SR-DEL", vo.StatusOpen, baseTime)
	require.NoError(t, repo.Create(ctx, sr))

	require.NoError(t, repo.Delete(ctx, sr.ID()))

	found, err := repo.GetBySID(ctx, sr.SID())
	require.NoError(t, err)
	assert.Nil(t, found)

	err = repo.Delete(ctx, sr.ID())
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestServiceRequestRepository_List(t *testing.T) {
	repo := NewServiceRequestRepository(setupTestDB(t), logger.NewNopLogger())
	ctx := context.Background()

	// SR-A and SR-B share a timestamp; insertion order breaks the tie.
	fixtures := []struct {
		number  string
		status  vo.Status
		created time.Time
	}{
		{"SR-A", vo.StatusOpen, baseTime},
		{"SR-B", vo.StatusClosed, baseTime},
		{"XY-100", vo.StatusInProgress, baseTime.Add(time.Hour)},
		{"xy_200", vo.StatusOpen, baseTime.Add(2 * time.Hour)},
		{"SR%50", vo.StatusOpen, baseTime.Add(-time.Hour)},
	}
	for _, f := range fixtures {
		require.NoError(t, repo.Create(ctx, newRequest(t, f.number, f.status, f.created)))
	}

	numbers := func(items []*servicerequest.ServiceRequest) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.ServiceNumber())
		}
		return out
	}
	statusPtr := func(s vo.Status) *vo.Status { return &s }

	tests := []struct {
		name      string
		filter    servicerequest.Filter
		want      []string
		wantTotal int64
	}{
		{
			name:      "unfiltered newest first",
			filter:    servicerequest.Filter{Page: 1, PageSize: 10},
			want:      []string{"xy_200", "XY-100", "SR-A", "SR-B", "SR%50"},
			wantTotal: 5,
		},
		{
			name:      "case-insensitive substring",
			filter:    servicerequest.Filter{ServiceNumber: "xy", Page: 1, PageSize: 10},
			want:      []string{"xy_200", "XY-100"},
			wantTotal: 2,
		},
		{
			name:      "underscore is literal",
			filter:    servicerequest.Filter{ServiceNumber: "_", Page: 1, PageSize: 10},
			want:      []string{"xy_200"},
			wantTotal: 1,
		},
		{
			name:      "percent is literal",
			filter:    servicerequest.Filter{ServiceNumber: "%", Page: 1, PageSize: 10},
			want:      []string{"SR%50"},
			wantTotal: 1,
		},
		{
			name:      "status",
			filter:    servicerequest.Filter{Status: statusPtr(vo.StatusOpen), Page: 1, PageSize: 10},
			want:      []string{"xy_200", "SR-A", "SR%50"},
			wantTotal: 3,
		},
		{
			name:      "search and status combine",
			filter:    servicerequest.Filter{ServiceNumber: "sr-", Status: statusPtr(vo.StatusClosed), Page: 1, PageSize: 10},
			want:      []string{"SR-B"},
			wantTotal: 1,
		},
		{
			name:      "second page",
			filter:    servicerequest.Filter{Page: 2, PageSize: 2},
			want:      []string{"SR-A", "SR-B"},
			wantTotal: 5,
		},
		{
			name:      "page past the end",
			filter:    servicerequest.Filter{Page: 4, PageSize: 2},
			want:      []string{},
			wantTotal: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.want, numbers(items))
		})
	}

	t.Run("list all uses the same order", func(t *testing.T) {
		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"xy_200", "XY-100", "SR-A", "SR-B", "SR%50"}, numbers(all))
	})
}

func TestServiceRequestRepository_ListNonASCIINumber(t *testing.T) {
	repo := NewServiceRequestRepository(setupTestDB(t), logger.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newRequest(t, "ÄR-7", vo.StatusOpen, baseTime)))

	for _, term := range []string{"ÄR", "Är", "Är-7", "r-7"} {
		items, total, err := repo.List(ctx, servicerequest.Filter{ServiceNumber: term, Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total, term)
		assert.Len(t, items, 1, term)
	}
}

func TestServiceRequestRepository_GetByRCAFilePath(t *testing.T) {
	repo := NewServiceRequestRepository(setupTestDB(t), logger.NewNopLogger())
	ctx := context.Background()

	sr, err := servicerequest.NewServiceRequest("sr_SR-1", servicerequest.Draft{ServiceNumber: "SR-1"}, "/uploads/a-rca.pdf", testActor, baseTime)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, sr))
	require.NoError(t, repo.Create(ctx, newRequest(t, "SR-2", vo.StatusOpen, baseTime)))

	owner, err := repo.GetByRCAFilePath(ctx, "/uploads/a-rca.pdf")
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.Equal(t, "SR-1", owner.ServiceNumber())

	owner, err = repo.GetByRCAFilePath(ctx, "/uploads/other.pdf")
	require.NoError(t, err)
	assert.Nil(t, owner)

	owner, err = repo.GetByRCAFilePath(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, owner, "requests without an attachment are never owners")
}

func TestFoldASCII(t *testing.T) {
	assert.Equal(t, "sr-Äb_9", foldASCII("SR-ÄB_9"))
}

func TestServiceRequestRepository_Count(t *testing.T) {
	repo := NewServiceRequestRepository(setupTestDB(t), logger.NewNopLogger())
	ctx := context.Background()

	for i, status := range []vo.Status{vo.StatusOpen, vo.StatusOpen, vo.StatusInProgress, vo.StatusClosed} {
		created := baseTime.AddDate(0, 0, -20*i)
		require.NoError(t, repo.Create(ctx, newRequest(t, fmt.Sprintf("SR-%d", i), status, created)))
	}

	total, err := repo.Count(ctx, servicerequest.CountPredicate{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	open := vo.StatusOpen
	openCount, err := repo.Count(ctx, servicerequest.CountPredicate{Status: &open})
	require.NoError(t, err)
	assert.Equal(t, int64(2), openCount)

	since := baseTime.AddDate(0, 0, -30)
	recent, err := repo.Count(ctx, servicerequest.CountPredicate{CreatedSince: &since})
	require.NoError(t, err)
	assert.Equal(t, int64(2), recent)
}

func TestServiceRequestRepository_Transaction(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewServiceRequestRepository(gdb, logger.NewNopLogger())
	tm := db.NewTransactionManager(gdb)
	ctx := context.Background()

	err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := repo.Create(txCtx, newRequest(t, "SR-TX", vo.StatusOpen, baseTime)); err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	require.Error(t, err)

	found, err := repo.GetByServiceNumber(ctx, "SR-TX")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t), logger.NewNopLogger())
	ctx := context.Background()

	admin := &user.Account{Username: "ns6", Role: user.RoleAdmin}
	created, err := repo.Ensure(ctx, admin)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, admin.ID)

	again := &user.Account{Username: "ns6", Role: user.RoleUser}
	created, err = repo.Ensure(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)
	assert.Equal(t, user.RoleAdmin, again.Role)

	huawei := &user.Account{Username: "huawei", Role: user.RoleUser}
	_, err = repo.Ensure(ctx, huawei)
	require.NoError(t, err)

	names, err := repo.GetUsernames(ctx, []uint{admin.ID, huawei.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{admin.ID: "ns6", huawei.ID: "huawei"}, names)

	empty, err := repo.GetUsernames(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	missing, err := repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
