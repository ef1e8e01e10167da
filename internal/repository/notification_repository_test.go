package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

const broadcastFanout = "SELECT id, ?, ?, ?, ? FROM users WHERE is_active = 1 AND id <> ?"

func TestNotificationRepoBroadcast(t *testing.T) {
	const senderID = uint64(1)
	const message = "Maintenance tonight at 10pm UTC"
	const broadcastID = "b1f6c6f0-9c1a-4f6e-9a64-2f6f0e7f9d21"

	t.Run("fans out to every active user except the sender", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewNotificationRepo(db)

		mock.ExpectExec(regexp.QuoteMeta(broadcastFanout)).
			WithArgs(senderID, NotifAnnouncement, message, broadcastID, senderID).
			WillReturnResult(sqlmock.NewResult(0, 4))

		count, err := repo.Broadcast(context.Background(), senderID, message, broadcastID)
		require.NoError(t, err)
		require.EqualValues(t, 4, count)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retry under the same broadcast id inserts nothing new", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewNotificationRepo(db)

		// INSERT IGNORE against the unique (broadcast_id, recipient_id)
		// key skips recipients the first attempt already covered.
		mock.ExpectExec(regexp.QuoteMeta(broadcastFanout)).
			WithArgs(senderID, NotifAnnouncement, message, broadcastID, senderID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		count, err := repo.Broadcast(context.Background(), senderID, message, broadcastID)
		require.NoError(t, err)
		require.EqualValues(t, 0, count)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNotificationRepoMarkRead(t *testing.T) {
	const (
		notifID     = uint64(8)
		recipientID = uint64(4)
	)
	markRead := "UPDATE notifications SET is_read=1 WHERE id=? AND recipient_id=?"
	existsCheck := "SELECT EXISTS(SELECT 1 FROM notifications WHERE id=? AND recipient_id=?)"

	t.Run("flags the recipient's own notification", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewNotificationRepo(db)

		mock.ExpectExec(regexp.QuoteMeta(markRead)).
			WithArgs(notifID, recipientID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.MarkRead(context.Background(), notifID, recipientID))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("someone else's notification reads as not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewNotificationRepo(db)

		mock.ExpectExec(regexp.QuoteMeta(markRead)).
			WithArgs(notifID, recipientID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(existsCheck)).
			WithArgs(notifID, recipientID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err = repo.MarkRead(context.Background(), notifID, recipientID)
		require.ErrorIs(t, err, ErrNotificationNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("marking an already-read notification is not an error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewNotificationRepo(db)

		mock.ExpectExec(regexp.QuoteMeta(markRead)).
			WithArgs(notifID, recipientID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(existsCheck)).
			WithArgs(notifID, recipientID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		require.NoError(t, repo.MarkRead(context.Background(), notifID, recipientID))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
