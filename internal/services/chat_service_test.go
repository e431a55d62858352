package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub_backend/internal/config"
	"schoolhub_backend/internal/models"
	chatmodels "schoolhub_backend/internal/models/chat"
	"schoolhub_backend/internal/services/dto"
	"schoolhub_backend/pkg/apperrors"
)

type chatFixture struct {
	chatRepo        *fakeChatRepo
	participantRepo *fakeParticipantRepo
	messageRepo     *fakeMessageRepo
	receiptRepo     *fakeReceiptRepo
	userRepo        *fakeUserRepo
	subjectRepo     *fakeSubjectRepo
	classRepo       *fakeClassRepo
	store           *fakeStorage
	broadcaster     *recordingBroadcaster
	svc             ChatService
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	config.AppConfig = &config.Config{}
	config.AppConfig.Upload.MaxSize = 1024
	config.AppConfig.Upload.AllowedTypes = []string{"image/png", "application/pdf", "audio/mpeg"}

	classID := "class-1"
	teacherID := "teacher-1"

	f := &chatFixture{
		chatRepo:        newFakeChatRepo(),
		participantRepo: newFakeParticipantRepo(),
		messageRepo:     &fakeMessageRepo{},
		receiptRepo:     &fakeReceiptRepo{},
		subjectRepo: &fakeSubjectRepo{subjects: []models.Subject{
			{BaseModel: models.BaseModel{ID: "subj-1"}, Name: "Algebra", ClassID: classID, TeacherID: &teacherID},
			{BaseModel: models.BaseModel{ID: "subj-2"}, Name: "Physics", ClassID: classID, TeacherID: &teacherID},
		}},
		classRepo: newFakeClassRepo(
			&models.Class{BaseModel: models.BaseModel{ID: classID}, Name: "10-A", SchoolID: "school-1"},
		),
		store:       newFakeStorage(),
		broadcaster: newRecordingBroadcaster(),
	}
	f.userRepo = newFakeUserRepo(
		&models.User{BaseModel: models.BaseModel{ID: "admin-1"}, Name: "Dana", Role: models.UserRoleAdmin, SchoolID: "school-1"},
		&models.User{BaseModel: models.BaseModel{ID: teacherID}, Name: "Marat", Role: models.UserRoleTeacher, SchoolID: "school-1"},
		&models.User{BaseModel: models.BaseModel{ID: "student-1"}, Name: "Aida", Role: models.UserRoleStudent, SchoolID: "school-1", ClassID: &classID},
		&models.User{BaseModel: models.BaseModel{ID: "student-2"}, Name: "Bek", Role: models.UserRoleStudent, SchoolID: "school-1", ClassID: &classID},
		&models.User{BaseModel: models.BaseModel{ID: "outsider-1"}, Name: "Eva", Role: models.UserRoleStudent, SchoolID: "school-1"},
	)

	notifRepo := newFakeNotificationRepo()
	notification := NewNotificationService(notifRepo, f.userRepo, &NopBroadcaster{})

	f.svc = NewChatService(
		f.chatRepo, f.participantRepo, f.messageRepo, f.receiptRepo,
		f.userRepo, f.subjectRepo, f.classRepo,
		f.store, notification, f.broadcaster,
	)
	return f
}

func makeFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	files := req.MultipartForm.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func TestCreateClassChat_SnapshotsRosterTeachersAndAdmin(t *testing.T) {
	f := newChatFixture(t)

	chat, err := f.svc.CreateClassChat("admin-1", "school-1", &dto.CreateClassChatRequest{ClassID: "class-1"})

	require.NoError(t, err)
	assert.Equal(t, "10-A", chat.Name, "chat name defaults to the class name")

	// Two students, one teacher of two subjects (deduplicated), one admin.
	require.Len(t, f.participantRepo.created, 4)

	roles := make(map[string]models.MembershipRole)
	for _, p := range f.participantRepo.created {
		roles[p.UserID] = p.Role
	}
	assert.Equal(t, models.MembershipRoleAdmin, roles["admin-1"])
	assert.Equal(t, models.MembershipRoleMember, roles["teacher-1"])
	assert.Equal(t, models.MembershipRoleMember, roles["student-1"])
	assert.Equal(t, models.MembershipRoleMember, roles["student-2"])
}

func TestCreateClassChat_DuplicateRejected(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.svc.CreateClassChat("admin-1", "school-1", &dto.CreateClassChatRequest{ClassID: "class-1"})
	require.NoError(t, err)

	_, err = f.svc.CreateClassChat("admin-1", "school-1", &dto.CreateClassChatRequest{ClassID: "class-1"})
	assert.ErrorIs(t, err, apperrors.ErrClassChatExists)
}

func TestCreateClassChat_WrongSchool(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.svc.CreateClassChat("admin-1", "school-2", &dto.CreateClassChatRequest{ClassID: "class-1"})

	assert.ErrorIs(t, err, apperrors.ErrChatAccessDenied)
}

func TestSendMessage_BlankContentRejected(t *testing.T) {
	f := newChatFixture(t)
	f.chatRepo.Create(&chatmodels.Chat{Name: "g", Type: models.ChatTypeGroup})
	f.participantRepo.add("chat-g", "student-1", models.MembershipRoleMember)

	_, err := f.svc.SendMessage("chat-g", "student-1", &dto.SendMessageRequest{Content: "   \n\t "})

	assert.ErrorIs(t, err, apperrors.ErrEmptyMessage)
	assert.Empty(t, f.messageRepo.messages, "blank messages must not be persisted")
}

func TestSendMessage_NonParticipantRejected(t *testing.T) {
	f := newChatFixture(t)
	f.chatRepo.Create(&chatmodels.Chat{Name: "g", Type: models.ChatTypeGroup})
	f.participantRepo.add("chat-g", "student-1", models.MembershipRoleMember)

	_, err := f.svc.SendMessage("chat-g", "outsider-1", &dto.SendMessageRequest{Content: "hi"})

	assert.ErrorIs(t, err, apperrors.ErrUserNotInChat)
	assert.Empty(t, f.messageRepo.messages)
}

func TestSendMessage_SnapshotsSenderAndBroadcasts(t *testing.T) {
	f := newChatFixture(t)
	f.chatRepo.Create(&chatmodels.Chat{Name: "g", Type: models.ChatTypeGroup})
	f.participantRepo.add("chat-g", "student-1", models.MembershipRoleMember)

	message, err := f.svc.SendMessage("chat-g", "student-1", &dto.SendMessageRequest{Content: "  hello  "})

	require.NoError(t, err)
	assert.Equal(t, "hello", message.Content, "content is trimmed")
	assert.Equal(t, "Aida", message.SenderName)
	assert.Equal(t, models.UserRoleStudent, message.SenderRole)
	assert.Equal(t, models.MessageTypeText, message.Type)

	events := f.broadcaster.chatEvents["chat-g"]
	require.Len(t, events, 1)
	assert.Equal(t, "new-message", events[0].Type)
}

func TestUploadFile_NonParticipantRejectedBeforeStore(t *testing.T) {
	f := newChatFixture(t)
	f.chatRepo.Create(&chatmodels.Chat{Name: "g", Type: models.ChatTypeGroup})
	header := makeFileHeader(t, "photo.png", "image/png", []byte("png-bytes"))

	_, err := f.svc.UploadFile(context.Background(), "chat-g", "outsider-1", header)

	assert.ErrorIs(t, err, apperrors.ErrUserNotInChat)
	assert.Empty(t, f.store.saved)
	assert.Empty(t, f.messageRepo.messages)
}

func TestUploadFile_RejectsOversize(t *testing.T) {
	f := newChatFixture(t)
	f.chatRepo.Create(&chatmodels.Chat{Name: "g", Type: models.ChatTypeGroup})
	f.participantRepo.add("chat-g", "student-1", models.MembershipRoleMember)
	header := makeFileHeader(t, "big.png", "image/png", bytes.Repeat([]byte("x"), 2048))

	_, err := f.svc.UploadFile(context.Background(), "chat-g", "student-1", header)

	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)
	assert.Empty(t, f.store.saved)
}

func TestUploadFile_RejectsDisallowedMIME(t *testing.T) {
	f := newChatFixture(t)
	f.chatRepo.Create(&chatmodels.Chat{Name: "g", Type: models.ChatTypeGroup})
	f.participantRepo.add("chat-g", "student-1", models.MembershipRoleMember)
	header := makeFileHeader(t, "app.exe", "application/x-msdownload", []byte("MZ"))

	_, err := f.svc.UploadFile(context.Background(), "chat-g", "student-1", header)

	assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)
	assert.Empty(t, f.store.saved)
	assert.Empty(t, f.messageRepo.messages)
}

func TestUploadFile_StoresAndClassifies(t *testing.T) {
	f := newChatFixture(t)
	f.chatRepo.Create(&chatmodels.Chat{Name: "g", Type: models.ChatTypeGroup})
	f.participantRepo.add("chat-g", "student-1", models.MembershipRoleMember)
	header := makeFileHeader(t, "notes.pdf", "application/pdf", []byte("%PDF-1.4"))

	message, err := f.svc.UploadFile(context.Background(), "chat-g", "student-1", header)

	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeDocument, message.Type)
	assert.Equal(t, "notes.pdf", message.FileName)
	assert.NotEmpty(t, message.FileURL)
	assert.Len(t, f.store.saved, 1)
	require.Len(t, f.messageRepo.messages, 1)
}

func TestClassifyMessageType(t *testing.T) {
	assert.Equal(t, models.MessageTypeImage, classifyMessageType("image/png"))
	assert.Equal(t, models.MessageTypeVideo, classifyMessageType("video/mp4"))
	assert.Equal(t, models.MessageTypeVoice, classifyMessageType("audio/mpeg"))
	assert.Equal(t, models.MessageTypeDocument, classifyMessageType("application/pdf"))
	assert.Equal(t, models.MessageTypeDocument, classifyMessageType("application/msword"))
	assert.Equal(t, models.MessageTypeFile, classifyMessageType("text/plain"))
}

func TestGetMessages_AdvancesLastSeenAndUpsertsReceipt(t *testing.T) {
	f := newChatFixture(t)
	f.chatRepo.Create(&chatmodels.Chat{Name: "g", Type: models.ChatTypeGroup})
	f.participantRepo.add("chat-g", "student-1", models.MembershipRoleMember)
	f.participantRepo.add("chat-g", "student-2", models.MembershipRoleMember)

	older := chatmodels.Message{ChatID: "chat-g", SenderID: "student-2", Content: "first"}
	older.ID = "m1"
	older.CreatedAt = time.Now().Add(-time.Minute)
	newer := chatmodels.Message{ChatID: "chat-g", SenderID: "student-2", Content: "second"}
	newer.ID = "m2"
	newer.CreatedAt = time.Now()
	f.messageRepo.messages = []chatmodels.Message{newer, older}

	messages, total, err := f.svc.GetMessages("chat-g", "student-1", 1, 50)

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content, "page is returned oldest first")
	assert.Contains(t, f.participantRepo.lastSeen, "chat-g:student-1")
	assert.Equal(t, []string{"m2:student-1"}, f.receiptRepo.upserts, "receipt lands on the newest message")
}

func TestGetMessages_OwnNewestMessageGetsNoReceipt(t *testing.T) {
	f := newChatFixture(t)
	f.chatRepo.Create(&chatmodels.Chat{Name: "g", Type: models.ChatTypeGroup})
	f.participantRepo.add("chat-g", "student-1", models.MembershipRoleMember)

	own := chatmodels.Message{ChatID: "chat-g", SenderID: "student-1", Content: "mine"}
	own.ID = "m1"
	own.CreatedAt = time.Now()
	f.messageRepo.messages = []chatmodels.Message{own}

	_, _, err := f.svc.GetMessages("chat-g", "student-1", 1, 50)

	require.NoError(t, err)
	assert.Empty(t, f.receiptRepo.upserts)
}

func TestUnreadCount_ExcludesOwnMessages(t *testing.T) {
	f := newChatFixture(t)
	f.chatRepo.Create(&chatmodels.Chat{Name: "g", Type: models.ChatTypeGroup})
	f.participantRepo.add("chat-g", "student-1", models.MembershipRoleMember)
	f.participantRepo.participants["chat-g"]["student-1"].LastSeenAt = time.Now().Add(-time.Hour)

	mine := chatmodels.Message{ChatID: "chat-g", SenderID: "student-1"}
	mine.CreatedAt = time.Now()
	theirs := chatmodels.Message{ChatID: "chat-g", SenderID: "student-2"}
	theirs.CreatedAt = time.Now()
	f.messageRepo.messages = []chatmodels.Message{mine, theirs}

	count, err := f.svc.UnreadCount("chat-g", "student-1")

	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAddParticipant_RequiresChatAdmin(t *testing.T) {
	f := newChatFixture(t)
	f.chatRepo.Create(&chatmodels.Chat{Name: "g", Type: models.ChatTypeGroup})
	f.participantRepo.add("chat-g", "student-1", models.MembershipRoleMember)

	err := f.svc.AddParticipant("chat-g", "student-1", &dto.AddParticipantRequest{UserID: "student-2"})

	assert.ErrorIs(t, err, apperrors.ErrChatAccessDenied)
}

func TestAddParticipant_IdempotentForExistingMember(t *testing.T) {
	f := newChatFixture(t)
	f.chatRepo.Create(&chatmodels.Chat{Name: "g", Type: models.ChatTypeGroup})
	f.participantRepo.add("chat-g", "admin-1", models.MembershipRoleAdmin)
	f.participantRepo.add("chat-g", "student-1", models.MembershipRoleMember)

	err := f.svc.AddParticipant("chat-g", "admin-1", &dto.AddParticipantRequest{UserID: "student-1"})

	require.NoError(t, err)
	assert.Empty(t, f.participantRepo.created, "no second membership row is written")
}

func TestLeaveChat_NotAMember(t *testing.T) {
	f := newChatFixture(t)
	f.chatRepo.Create(&chatmodels.Chat{Name: "g", Type: models.ChatTypeGroup})

	err := f.svc.LeaveChat("chat-g", "student-1")

	assert.ErrorIs(t, err, apperrors.ErrUserNotInChat)
}

func TestCreateChat_ClassTypeRejected(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.svc.CreateChat("admin-1", "school-1", &dto.CreateChatRequest{
		Type:           models.ChatTypeClass,
		ParticipantIDs: []string{"student-1"},
	})

	assert.Error(t, err)
}

func TestCreateChat_CreatorBecomesChatAdmin(t *testing.T) {
	f := newChatFixture(t)

	chat, err := f.svc.CreateChat("teacher-1", "school-1", &dto.CreateChatRequest{
		Type:           models.ChatTypeGroup,
		Name:           "Homework help",
		ParticipantIDs: []string{"student-1", "student-2"},
	})

	require.NoError(t, err)
	require.Len(t, chat.Participants, 3)

	roles := make(map[string]models.MembershipRole)
	for _, p := range chat.Participants {
		roles[p.UserID] = p.Role
	}
	assert.Equal(t, models.MembershipRoleAdmin, roles["teacher-1"])
	assert.Equal(t, models.MembershipRoleMember, roles["student-1"])
}
