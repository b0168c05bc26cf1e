package lockers

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophlocker/internal/common"
	"github.com/dmitrijs2005/gophlocker/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "owner", "creator", "vault", "mint", "deposited_amount", "current_unlock_date",
	"original_unlock_date", "start_emission", "vault_bump", "locker_bump", "status", "created_at", "closed_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	start := int64(100)
	created := time.Unix(50, 0)
	l := &models.Locker{
		ID: "l-1", Owner: "alice", Creator: "alice", Vault: "v-1", Mint: "m-1",
		DepositedAmount: 1000, CurrentUnlockDate: 200, OriginalUnlockDate: 200,
		StartEmission: &start, VaultBump: 7, LockerBump: 9, Status: models.LockerActive, CreatedAt: created,
	}

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+lockers\s*\(id,\s*owner,.*VALUES\s*\(\$1,.*\$13\)\s*$`).
		WithArgs("l-1", "alice", "alice", "v-1", "m-1", uint64(1000), int64(200), int64(200),
			int64(100), uint8(7), uint8(9), "active", created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), l))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT\s+INTO\s+lockers`).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.Locker{ID: "l-1"})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestGet_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	created := time.Unix(50, 0)
	rows := sqlmock.NewRows(columns).
		AddRow("l-1", "alice", "bob", "v-1", "m-1", int64(1000), int64(200), int64(150), nil, int64(7), int64(9), "active", created, nil)
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*owner,.*FROM\s+lockers\s+WHERE\s+id\s*=\s*\$1\s+AND\s+status\s*=\s*'active'\s*$`).
		WithArgs("l-1").
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "l-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Owner)
	assert.Equal(t, "bob", got.Creator)
	assert.Equal(t, uint64(1000), got.DepositedAmount)
	assert.Equal(t, int64(150), got.OriginalUnlockDate)
	assert.Nil(t, got.StartEmission)
	assert.Equal(t, uint8(7), got.VaultBump)
	assert.Equal(t, models.LockerActive, got.Status)
	assert.Nil(t, got.ClosedAt)
}

func TestGetForUpdate_LocksRowAndReadsLinearSchedule(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows(columns).
		AddRow("l-1", "alice", "alice", "v-1", "m-1", int64(1000), int64(200), int64(200), int64(100), int64(1), int64(2), "active", time.Unix(0, 0), nil)
	mock.ExpectQuery(`(?s)FROM\s+lockers\s+WHERE\s+id\s*=\s*\$1.*FOR\s+UPDATE\s*$`).
		WithArgs("l-1").
		WillReturnRows(rows)

	got, err := repo.GetForUpdate(context.Background(), "l-1")
	require.NoError(t, err)
	require.NotNil(t, got.StartEmission)
	assert.Equal(t, int64(100), *got.StartEmission)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+lockers`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGet_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+lockers`).WithArgs("l-1").WillReturnError(errors.New("db err"))

	_, err := repo.Get(context.Background(), "l-1")
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db err`, err.Error())
}

func TestUpdate(t *testing.T) {
	q := `(?s)^UPDATE\s+lockers\s+SET\s+owner\s*=\s*\$2,.*WHERE\s+id\s*=\s*\$1\s+AND\s+status\s*=\s*'active'\s*$`
	closedAt := time.Unix(99, 0)

	t.Run("active", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(q).
			WithArgs("l-1", "carol", uint64(500), int64(300), "active", nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		l := &models.Locker{ID: "l-1", Owner: "carol", DepositedAmount: 500, CurrentUnlockDate: 300, Status: models.LockerActive}
		require.NoError(t, repo.Update(context.Background(), l))
	})

	t.Run("closing", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(q).
			WithArgs("l-1", "carol", uint64(500), int64(300), "closed", closedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		l := &models.Locker{ID: "l-1", Owner: "carol", DepositedAmount: 500, CurrentUnlockDate: 300, Status: models.LockerActive}
		l.Close(closedAt)
		require.NoError(t, repo.Update(context.Background(), l))
	})

	t.Run("no row", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), &models.Locker{ID: "l-1", Status: models.LockerActive})
		require.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(q).WillReturnError(errors.New("boom"))

		err := repo.Update(context.Background(), &models.Locker{ID: "l-1", Status: models.LockerActive})
		require.Error(t, err)
		assert.Regexp(t, `db error: .*boom`, err.Error())
	})
}

func TestListByOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows(columns).
		AddRow("l-1", "alice", "alice", "v-1", "m-1", int64(10), int64(200), int64(200), nil, int64(1), int64(1), "active", time.Unix(1, 0), nil).
		AddRow("l-2", "alice", "bob", "v-2", "m-1", int64(20), int64(300), int64(300), int64(100), int64(2), int64(2), "active", time.Unix(2, 0), nil)
	mock.ExpectQuery(`(?s)WHERE\s+owner\s*=\s*\$1\s+AND\s+status\s*=\s*'active'\s+ORDER\s+BY`).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := repo.ListByOwner(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "l-1", got[0].ID)
	assert.Equal(t, "l-2", got[1].ID)
	assert.True(t, got[1].IsLinear())
}

func TestListByCreator_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)WHERE\s+creator\s*=\s*\$1`).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.ListByCreator(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestList_RowError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows(columns).
		AddRow("l-1", "alice", "alice", "v-1", "m-1", int64(10), int64(200), int64(200), nil, int64(1), int64(1), "active", time.Unix(1, 0), nil).
		RowError(0, errors.New("row broke"))
	mock.ExpectQuery(`WHERE\s+owner`).WithArgs("alice").WillReturnRows(rows)

	_, err := repo.ListByOwner(context.Background(), "alice")
	require.Error(t, err)
}
