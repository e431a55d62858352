package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/services/dto"
	"schoolhub_backend/pkg/apperrors"
)

func newNotificationFixture() (*fakeNotificationRepo, *fakeUserRepo, *recordingBroadcaster, NotificationService) {
	notifRepo := newFakeNotificationRepo()
	userRepo := newFakeUserRepo(
		&models.User{BaseModel: models.BaseModel{ID: "student-1"}, Name: "Aida", Role: models.UserRoleStudent},
		&models.User{BaseModel: models.BaseModel{ID: "student-2"}, Name: "Bek", Role: models.UserRoleStudent},
		&models.User{BaseModel: models.BaseModel{ID: "teacher-1"}, Name: "Marat", Role: models.UserRoleTeacher},
	)
	broadcaster := newRecordingBroadcaster()
	svc := NewNotificationService(notifRepo, userRepo, broadcaster)
	return notifRepo, userRepo, broadcaster, svc
}

func TestCreateNotification_RejectsUnknownType(t *testing.T) {
	notifRepo, _, _, svc := newNotificationFixture()

	_, err := svc.Create(nil, &dto.CreateNotificationRequest{
		RecipientID:   "student-1",
		RecipientRole: models.UserRoleStudent,
		Type:          "surprise_party",
		Title:         "t",
		Message:       "m",
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidNotificationType)
	assert.Empty(t, notifRepo.stored, "nothing should be written for a rejected type")
}

func TestCreateNotification_DefaultsPriorityAndEmits(t *testing.T) {
	notifRepo, _, broadcaster, svc := newNotificationFixture()

	created, err := svc.Create(nil, &dto.CreateNotificationRequest{
		RecipientID:   "student-1",
		RecipientRole: models.UserRoleStudent,
		Type:          models.NotificationTypeGradeUpdate,
		Title:         "Grade posted",
		Message:       "You scored 9/10",
	})

	require.NoError(t, err)
	assert.Equal(t, models.NotificationPriorityMedium, created.Priority)
	require.Len(t, notifRepo.stored, 1)
	assert.Equal(t, models.UserRoleStudent, notifRepo.stored[0].RecipientRole)

	events := broadcaster.userEvents["student-1"]
	require.Len(t, events, 1)
	assert.Equal(t, "new-notification", events[0].Type)
}

func TestCreateNotification_RecipientRoleMustMatch(t *testing.T) {
	notifRepo, _, _, svc := newNotificationFixture()

	_, err := svc.Create(nil, &dto.CreateNotificationRequest{
		RecipientID:   "teacher-1",
		RecipientRole: models.UserRoleStudent,
		Type:          models.NotificationTypeGradeUpdate,
		Title:         "t",
		Message:       "m",
	})

	require.Error(t, err)
	assert.Empty(t, notifRepo.stored)
}

func TestCreateBulk_OneRowPerRecipient(t *testing.T) {
	notifRepo, _, broadcaster, svc := newNotificationFixture()

	count, err := svc.CreateBulk(nil, &dto.CreateBulkNotificationRequest{
		RecipientIDs: []string{"student-1", "student-2"},
		Type:         models.NotificationTypeNewAssignment,
		Title:        "New assignment",
		Message:      "Algebra: homework 3",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, notifRepo.stored, 2)
	assert.Len(t, broadcaster.userEvents["student-1"], 1)
	assert.Len(t, broadcaster.userEvents["student-2"], 1)
}

func TestCreateBulk_SkipsUnknownRecipients(t *testing.T) {
	notifRepo, _, _, svc := newNotificationFixture()

	count, err := svc.CreateBulk(nil, &dto.CreateBulkNotificationRequest{
		RecipientIDs: []string{"student-1", "no-such-user"},
		Type:         models.NotificationTypeNewNotice,
		Title:        "Notice",
		Message:      "School closed Friday",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, notifRepo.stored, 1)
}

func TestFlagOps_RejectForeignNotification(t *testing.T) {
	notifRepo, _, _, svc := newNotificationFixture()
	notifRepo.put(&models.Notification{
		BaseModel:   models.BaseModel{ID: "n1"},
		RecipientID: "student-2",
	})

	err := svc.MarkAsRead("student-1", "n1")

	assert.ErrorIs(t, err, apperrors.ErrNotificationNotOwned)
	assert.Empty(t, notifRepo.flagCalls, "repo must not be touched for a foreign notification")
}

func TestFlagOps_OwnNotification(t *testing.T) {
	notifRepo, _, _, svc := newNotificationFixture()
	notifRepo.put(&models.Notification{
		BaseModel:   models.BaseModel{ID: "n1"},
		RecipientID: "student-1",
	})

	require.NoError(t, svc.MarkAsRead("student-1", "n1"))
	require.NoError(t, svc.Archive("student-1", "n1"))

	assert.Equal(t, []string{"read:n1", "archive:n1"}, notifRepo.flagCalls)
}

func TestFlagOps_MissingNotification(t *testing.T) {
	_, _, _, svc := newNotificationFixture()

	err := svc.MarkAsRead("student-1", "missing")

	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)
}

func TestBulkOperation_FailsClosedOnForeignID(t *testing.T) {
	notifRepo, _, _, svc := newNotificationFixture()
	notifRepo.ownedCount = 1 // two ids requested, only one owned

	err := svc.BulkOperation("student-1", &dto.BulkOperationRequest{
		IDs:       []string{"n1", "n2"},
		Operation: BulkOpMarkAsRead,
	})

	assert.ErrorIs(t, err, apperrors.ErrNotificationNotOwned)
	assert.Empty(t, notifRepo.bulkUpdates)
	assert.Empty(t, notifRepo.bulkDeleted)
}

func TestBulkOperation_AppliesWhenAllOwned(t *testing.T) {
	notifRepo, _, _, svc := newNotificationFixture()
	notifRepo.ownedCount = 2

	err := svc.BulkOperation("student-1", &dto.BulkOperationRequest{
		IDs:       []string{"n1", "n2"},
		Operation: BulkOpArchive,
	})

	require.NoError(t, err)
	require.Len(t, notifRepo.bulkUpdates, 1)
	assert.Equal(t, true, notifRepo.bulkUpdates[0]["is_archived"])
}

func TestBulkOperation_Delete(t *testing.T) {
	notifRepo, _, _, svc := newNotificationFixture()
	notifRepo.ownedCount = 1

	err := svc.BulkOperation("student-1", &dto.BulkOperationRequest{
		IDs:       []string{"n1"},
		Operation: BulkOpDelete,
	})

	require.NoError(t, err)
	assert.Len(t, notifRepo.bulkDeleted, 1)
}

func TestBulkOperation_UnknownOperation(t *testing.T) {
	notifRepo, _, _, svc := newNotificationFixture()
	notifRepo.ownedCount = 1

	err := svc.BulkOperation("student-1", &dto.BulkOperationRequest{
		IDs:       []string{"n1"},
		Operation: "explode",
	})

	assert.Error(t, err)
	assert.Empty(t, notifRepo.bulkUpdates)
}

func TestMarkAllAsRead_DelegatesToRepo(t *testing.T) {
	notifRepo, _, _, svc := newNotificationFixture()

	updated, err := svc.MarkAllAsRead("student-1")

	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)
	assert.Equal(t, []string{"student-1"}, notifRepo.markedAllFor)
}

func TestNotifyGradeUpdate_BuildsGradePayload(t *testing.T) {
	notifRepo, _, _, svc := newNotificationFixture()

	err := svc.NotifyGradeUpdate("student-1", "Algebra", 9, 10, "grade-1")

	require.NoError(t, err)
	require.Len(t, notifRepo.stored, 1)
	n := notifRepo.stored[0]
	assert.Equal(t, models.NotificationTypeGradeUpdate, n.Type)
	assert.Contains(t, n.Message, "Algebra")
	assert.Contains(t, string(n.Data), "grade-1")
}

func TestNotifyNewMessage_MissingRecipientIsSkipped(t *testing.T) {
	notifRepo, _, _, svc := newNotificationFixture()

	err := svc.NotifyNewMessage("gone", "Marat", "chat-1")

	require.NoError(t, err)
	assert.Empty(t, notifRepo.stored)
}
