package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockNotificationRepo(t *testing.T) (NotificationRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewNotificationRepository(gdb), mock
}

func TestArchive_GuardKeepsFirstArchivedAt(t *testing.T) {
	repo, mock := newMockNotificationRepo(t)

	// The first archive matches the row and stamps archived_at.
	mock.ExpectExec(`UPDATE "notifications" SET .+ WHERE .*is_archived = false`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Archive("n1", "user-1"))

	// The second call carries the same guard, so the already-archived row no
	// longer matches and its archived_at stays untouched. Still not an error.
	mock.ExpectExec(`UPDATE "notifications" SET .+ WHERE .*is_archived = false`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, repo.Archive("n1", "user-1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnarchive_GuardedSymmetrically(t *testing.T) {
	repo, mock := newMockNotificationRepo(t)

	mock.ExpectExec(`UPDATE "notifications" SET .+ WHERE .*is_archived = true`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, repo.Unarchive("n1", "user-1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAsRead_UnknownRowRejected(t *testing.T) {
	repo, mock := newMockNotificationRepo(t)

	// No guard on the read flag: zero matched rows means the notification
	// does not exist or belongs to someone else.
	mock.ExpectExec(`UPDATE "notifications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkAsRead("missing", "user-1")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
