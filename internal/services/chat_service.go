package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolhub_backend/internal/config"
	"schoolhub_backend/internal/logger"
	"schoolhub_backend/internal/metrics"
	"schoolhub_backend/internal/models"
	chatmodels "schoolhub_backend/internal/models/chat"
	"schoolhub_backend/internal/repositories"
	chatrepo "schoolhub_backend/internal/repositories/chat"
	"schoolhub_backend/internal/services/dto"
	"schoolhub_backend/internal/storage"
	"schoolhub_backend/pkg/apperrors"
)

type ChatService interface {
	CreateClassChat(adminID, schoolID string, req *dto.CreateClassChatRequest) (*dto.ChatDTO, error)
	CreateChat(creatorID, schoolID string, req *dto.CreateChatRequest) (*dto.ChatDTO, error)
	GetChats(userID string) ([]dto.ChatDTO, error)
	GetChat(chatID, userID string) (*dto.ChatDTO, error)

	SendMessage(chatID, senderID string, req *dto.SendMessageRequest) (*dto.MessageDTO, error)
	UploadFile(ctx context.Context, chatID, senderID string, header *multipart.FileHeader) (*dto.MessageDTO, error)
	GetMessages(chatID, userID string, page, limit int) ([]dto.MessageDTO, int64, error)
	UnreadCount(chatID, userID string) (int64, error)

	GetParticipants(chatID, userID string) ([]dto.ParticipantDTO, error)
	AddParticipant(chatID, callerID string, req *dto.AddParticipantRequest) error
	RemoveParticipant(chatID, callerID, userID string) error
	UpdateParticipantRole(chatID, callerID, userID string, role models.MembershipRole) error
	LeaveChat(chatID, userID string) error
	DeactivateChat(chatID, callerID string) error
}

type chatService struct {
	chatRepo        chatrepo.ChatRepository
	participantRepo chatrepo.ParticipantRepository
	messageRepo     chatrepo.MessageRepository
	receiptRepo     chatrepo.ReadReceiptRepository
	userRepo        repositories.UserRepository
	subjectRepo     repositories.SubjectRepository
	classRepo       repositories.ClassRepository
	store           storage.Storage
	notification    NotificationService
	broadcaster     Broadcaster
}

func NewChatService(
	chatRepo chatrepo.ChatRepository,
	participantRepo chatrepo.ParticipantRepository,
	messageRepo chatrepo.MessageRepository,
	receiptRepo chatrepo.ReadReceiptRepository,
	userRepo repositories.UserRepository,
	subjectRepo repositories.SubjectRepository,
	classRepo repositories.ClassRepository,
	store storage.Storage,
	notification NotificationService,
	broadcaster Broadcaster,
) ChatService {
	return &chatService{
		chatRepo:        chatRepo,
		participantRepo: participantRepo,
		messageRepo:     messageRepo,
		receiptRepo:     receiptRepo,
		userRepo:        userRepo,
		subjectRepo:     subjectRepo,
		classRepo:       classRepo,
		store:           store,
		notification:    notification,
		broadcaster:     broadcaster,
	}
}

// CreateClassChat creates the chat for a class and snapshots its membership:
// the class roster, the teachers of the class's subjects, and the creating
// admin. The snapshot is point-in-time; later roster changes do not propagate.
func (s *chatService) CreateClassChat(adminID, schoolID string, req *dto.CreateClassChatRequest) (*dto.ChatDTO, error) {
	class, err := s.classRepo.FindByID(req.ClassID)
	if err != nil {
		return nil, apperrors.ErrClassNotFound
	}
	if class.SchoolID != schoolID {
		return nil, apperrors.ErrChatAccessDenied
	}

	// Existence probe before insert. Two admins racing here can both pass
	// and produce duplicate class chats.
	if _, err := s.chatRepo.FindClassChat(req.ClassID, schoolID); err == nil {
		return nil, apperrors.ErrClassChatExists
	} else if !errors.Is(err, chatrepo.ErrChatNotFound) {
		return nil, apperrors.InternalError(err)
	}

	name := req.Name
	if name == "" {
		name = class.Name
	}

	chat := &chatmodels.Chat{
		Name:        name,
		Description: req.Description,
		Type:        models.ChatTypeClass,
		ClassID:     &class.ID,
		SchoolID:    schoolID,
		IsActive:    true,
		CreatedByID: adminID,
	}
	if err := s.chatRepo.Create(chat); err != nil {
		return nil, apperrors.InternalError(err)
	}

	members, err := s.classChatMembers(class.ID, adminID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	participants := make([]chatmodels.Participant, 0, len(members))
	recipientIDs := make([]string, 0, len(members))
	for _, m := range members {
		role := models.MembershipRoleMember
		if m.id == adminID {
			role = models.MembershipRoleAdmin
		} else {
			recipientIDs = append(recipientIDs, m.id)
		}
		participants = append(participants, chatmodels.Participant{
			ChatID:     chat.ID,
			UserID:     m.id,
			UserRole:   m.role,
			Role:       role,
			JoinedAt:   now,
			LastSeenAt: now,
		})
	}
	if err := s.participantRepo.CreateMany(participants); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if len(recipientIDs) > 0 {
		if err := s.notification.NotifyChatAdded(recipientIDs, chat.ID, chat.Name); err != nil {
			logger.WithError(err).Warn("chat_added notifications failed", "chat_id", chat.ID)
		}
	}

	result := s.toChatDTO(chat, participants, 0)
	return &result, nil
}

type member struct {
	id   string
	role models.UserRole
}

// classChatMembers derives the snapshot membership, deduplicated: a teacher
// of two subjects, or an admin who also teaches, appears once.
func (s *chatService) classChatMembers(classID, adminID string) ([]member, error) {
	seen := make(map[string]bool)
	var members []member

	add := func(id string, role models.UserRole) {
		if !seen[id] {
			seen[id] = true
			members = append(members, member{id: id, role: role})
		}
	}

	students, err := s.userRepo.FindByClass(classID, models.UserRoleStudent)
	if err != nil {
		return nil, err
	}
	for i := range students {
		add(students[i].ID, models.UserRoleStudent)
	}

	subjects, err := s.subjectRepo.FindByClass(classID)
	if err != nil {
		return nil, err
	}
	for i := range subjects {
		if subjects[i].TeacherID != nil {
			add(*subjects[i].TeacherID, models.UserRoleTeacher)
		}
	}

	add(adminID, models.UserRoleAdmin)
	return members, nil
}

func (s *chatService) CreateChat(creatorID, schoolID string, req *dto.CreateChatRequest) (*dto.ChatDTO, error) {
	if req.Type == models.ChatTypeClass {
		return nil, apperrors.NewBadRequestError("class chats are created through the class chat endpoint")
	}

	// Reuse an existing private chat between the same two users.
	if req.Type == models.ChatTypePrivate && len(req.ParticipantIDs) == 1 {
		if existing, err := s.chatRepo.FindPrivateChat(creatorID, req.ParticipantIDs[0]); err == nil {
			return s.GetChat(existing.ID, creatorID)
		}
	}

	users, err := s.userRepo.FindByIDs(req.ParticipantIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if len(users) != len(req.ParticipantIDs) {
		return nil, apperrors.ErrUserNotFound
	}

	creator, err := s.userRepo.FindByID(creatorID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	name := req.Name
	if name == "" && req.Type == models.ChatTypePrivate && len(users) == 1 {
		name = users[0].Name
	}

	chat := &chatmodels.Chat{
		Name:        name,
		Description: req.Description,
		Type:        req.Type,
		SchoolID:    schoolID,
		IsActive:    true,
		CreatedByID: creatorID,
	}
	if err := s.chatRepo.Create(chat); err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	participants := []chatmodels.Participant{{
		ChatID:     chat.ID,
		UserID:     creator.ID,
		UserRole:   creator.Role,
		Role:       models.MembershipRoleAdmin,
		JoinedAt:   now,
		LastSeenAt: now,
	}}
	recipientIDs := make([]string, 0, len(users))
	for i := range users {
		if users[i].ID == creatorID {
			continue
		}
		participants = append(participants, chatmodels.Participant{
			ChatID:     chat.ID,
			UserID:     users[i].ID,
			UserRole:   users[i].Role,
			Role:       models.MembershipRoleMember,
			JoinedAt:   now,
			LastSeenAt: now,
		})
		recipientIDs = append(recipientIDs, users[i].ID)
	}
	if err := s.participantRepo.CreateMany(participants); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if len(recipientIDs) > 0 {
		if err := s.notification.NotifyChatAdded(recipientIDs, chat.ID, chat.Name); err != nil {
			logger.WithError(err).Warn("chat_added notifications failed", "chat_id", chat.ID)
		}
	}

	result := s.toChatDTO(chat, participants, 0)
	return &result, nil
}

func (s *chatService) GetChats(userID string) ([]dto.ChatDTO, error) {
	chats, err := s.chatRepo.FindAllByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.ChatDTO, 0, len(chats))
	for i := range chats {
		unread := int64(0)
		if p, err := s.participantRepo.Find(chats[i].ID, userID); err == nil {
			if n, err := s.messageRepo.CountAfter(chats[i].ID, userID, p.LastSeenAt); err == nil {
				unread = n
			}
		}
		result = append(result, s.toChatDTO(&chats[i], chats[i].Participants, unread))
	}
	return result, nil
}

func (s *chatService) GetChat(chatID, userID string) (*dto.ChatDTO, error) {
	if err := s.requireParticipant(chatID, userID); err != nil {
		return nil, err
	}

	chat, err := s.chatRepo.FindByID(chatID)
	if err != nil {
		return nil, apperrors.ErrChatNotFound
	}

	unread, err := s.UnreadCount(chatID, userID)
	if err != nil {
		unread = 0
	}

	result := s.toChatDTO(chat, chat.Participants, unread)
	return &result, nil
}

// SendMessage appends a text message. Blank content and non-participants are
// rejected before anything is written.
func (s *chatService) SendMessage(chatID, senderID string, req *dto.SendMessageRequest) (*dto.MessageDTO, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.ErrEmptyMessage
	}

	if err := s.requireParticipant(chatID, senderID); err != nil {
		return nil, err
	}

	sender, err := s.userRepo.FindByID(senderID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	message := &chatmodels.Message{
		ChatID:     chatID,
		SenderID:   sender.ID,
		SenderRole: sender.Role,
		SenderName: sender.Name,
		Content:    content,
		Type:       models.MessageTypeText,
		ReplyToID:  req.ReplyToID,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	metrics.MessagesSent.Inc()
	result := toMessageDTO(message)
	s.broadcaster.EmitToChat(chatID, Event{Type: "new-message", Payload: result})

	return &result, nil
}

// UploadFile stores a file message. The participant gate comes first, then
// size and MIME checks, so a rejected upload never touches the chat.
func (s *chatService) UploadFile(ctx context.Context, chatID, senderID string, header *multipart.FileHeader) (*dto.MessageDTO, error) {
	if err := s.requireParticipant(chatID, senderID); err != nil {
		return nil, err
	}

	cfg := config.GetConfig()
	if header.Size > cfg.Upload.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	mimeType := header.Header.Get("Content-Type")
	if !allowedMIME(mimeType, cfg.Upload.AllowedTypes) {
		return nil, apperrors.ErrInvalidFileType
	}

	sender, err := s.userRepo.FindByID(senderID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	file, err := header.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer file.Close()

	path := fmt.Sprintf("chat/%s/%s%s", chatID, uuid.NewString(), filepath.Ext(header.Filename))
	if err := s.store.Save(ctx, path, file, mimeType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	url, err := s.store.GetURL(ctx, path)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	message := &chatmodels.Message{
		ChatID:     chatID,
		SenderID:   sender.ID,
		SenderRole: sender.Role,
		SenderName: sender.Name,
		Type:       classifyMessageType(mimeType),
		FileName:   header.Filename,
		FileSize:   header.Size,
		FileURL:    url,
		MimeType:   mimeType,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	metrics.MessagesSent.Inc()
	result := toMessageDTO(message)
	s.broadcaster.EmitToChat(chatID, Event{Type: "new-message", Payload: result})

	return &result, nil
}

// GetMessages returns one page of history in chronological order (the store
// pages newest-first) and advances the caller's last-seen marker.
func (s *chatService) GetMessages(chatID, userID string, page, limit int) ([]dto.MessageDTO, int64, error) {
	if err := s.requireParticipant(chatID, userID); err != nil {
		return nil, 0, err
	}

	messages, total, err := s.messageRepo.FindByChat(chatID, page, limit)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	result := make([]dto.MessageDTO, 0, len(messages))
	for i := range messages {
		result = append(result, toMessageDTO(&messages[i]))
	}

	now := time.Now()
	if err := s.participantRepo.UpdateLastSeen(userID, chatID, now); err != nil {
		logger.WithError(err).Warn("last_seen update failed", "chat_id", chatID)
	}

	// Receipt for the newest message the caller has now seen.
	if len(messages) > 0 {
		latest := messages[len(messages)-1]
		if latest.SenderID != userID {
			if err := s.receiptRepo.Upsert(latest.ID, userID, now); err != nil {
				logger.WithError(err).Warn("read receipt upsert failed", "chat_id", chatID)
			}
		}
	}

	return result, total, nil
}

func (s *chatService) UnreadCount(chatID, userID string) (int64, error) {
	participant, err := s.participantRepo.Find(chatID, userID)
	if err != nil {
		return 0, apperrors.ErrUserNotInChat
	}

	count, err := s.messageRepo.CountAfter(chatID, userID, participant.LastSeenAt)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *chatService) GetParticipants(chatID, userID string) ([]dto.ParticipantDTO, error) {
	if err := s.requireParticipant(chatID, userID); err != nil {
		return nil, err
	}

	participants, err := s.participantRepo.GetParticipants(chatID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]dto.ParticipantDTO, 0, len(participants))
	for i := range participants {
		result = append(result, toParticipantDTO(&participants[i]))
	}
	return result, nil
}

func (s *chatService) AddParticipant(chatID, callerID string, req *dto.AddParticipantRequest) error {
	if err := s.requireChatAdmin(chatID, callerID); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(req.UserID)
	if err != nil {
		return apperrors.ErrUserNotFound
	}

	if in, err := s.participantRepo.IsUserInChat(req.UserID, chatID); err != nil {
		return apperrors.InternalError(err)
	} else if in {
		return nil
	}

	role := req.Role
	if role == "" {
		role = models.MembershipRoleMember
	}

	now := time.Now()
	err = s.participantRepo.CreateMany([]chatmodels.Participant{{
		ChatID:     chatID,
		UserID:     user.ID,
		UserRole:   user.Role,
		Role:       role,
		JoinedAt:   now,
		LastSeenAt: now,
	}})
	if err != nil {
		return apperrors.InternalError(err)
	}

	if chat, err := s.chatRepo.FindByID(chatID); err == nil {
		if err := s.notification.NotifyChatAdded([]string{user.ID}, chatID, chat.Name); err != nil {
			logger.WithError(err).Warn("chat_added notification failed", "chat_id", chatID)
		}
	}
	return nil
}

func (s *chatService) RemoveParticipant(chatID, callerID, userID string) error {
	if err := s.requireChatAdmin(chatID, callerID); err != nil {
		return err
	}

	if err := s.participantRepo.Remove(chatID, userID); err != nil {
		if errors.Is(err, chatrepo.ErrParticipantNotFound) {
			return apperrors.ErrParticipantNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *chatService) UpdateParticipantRole(chatID, callerID, userID string, role models.MembershipRole) error {
	if err := s.requireChatAdmin(chatID, callerID); err != nil {
		return err
	}

	if err := s.participantRepo.UpdateRole(chatID, userID, role); err != nil {
		if errors.Is(err, chatrepo.ErrParticipantNotFound) {
			return apperrors.ErrParticipantNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *chatService) LeaveChat(chatID, userID string) error {
	if err := s.participantRepo.Remove(chatID, userID); err != nil {
		if errors.Is(err, chatrepo.ErrParticipantNotFound) {
			return apperrors.ErrUserNotInChat
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *chatService) DeactivateChat(chatID, callerID string) error {
	if err := s.requireChatAdmin(chatID, callerID); err != nil {
		return err
	}

	if err := s.chatRepo.Deactivate(chatID); err != nil {
		if errors.Is(err, chatrepo.ErrChatNotFound) {
			return apperrors.ErrChatNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *chatService) requireParticipant(chatID, userID string) error {
	in, err := s.participantRepo.IsUserInChat(userID, chatID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !in {
		return apperrors.ErrUserNotInChat
	}
	return nil
}

func (s *chatService) requireChatAdmin(chatID, userID string) error {
	participant, err := s.participantRepo.Find(chatID, userID)
	if err != nil {
		return apperrors.ErrUserNotInChat
	}
	if participant.Role != models.MembershipRoleAdmin && participant.Role != models.MembershipRoleModerator {
		return apperrors.ErrChatAccessDenied
	}
	return nil
}

// classifyMessageType maps the upload's MIME type onto the message type enum.
func classifyMessageType(mimeType string) models.MessageType {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return models.MessageTypeImage
	case strings.HasPrefix(mimeType, "video/"):
		return models.MessageTypeVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return models.MessageTypeVoice
	case mimeType == "application/pdf",
		mimeType == "application/msword",
		mimeType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return models.MessageTypeDocument
	default:
		return models.MessageTypeFile
	}
}

func allowedMIME(mimeType string, allowed []string) bool {
	for _, t := range allowed {
		if t == mimeType {
			return true
		}
	}
	return false
}

func (s *chatService) toChatDTO(chat *chatmodels.Chat, participants []chatmodels.Participant, unread int64) dto.ChatDTO {
	result := dto.ChatDTO{
		ID:          chat.ID,
		Name:        chat.Name,
		Description: chat.Description,
		Type:        chat.Type,
		ClassID:     chat.ClassID,
		SubjectID:   chat.SubjectID,
		IsActive:    chat.IsActive,
		CreatedAt:   chat.CreatedAt,
		UnreadCount: unread,
	}
	for i := range participants {
		result.Participants = append(result.Participants, toParticipantDTO(&participants[i]))
	}
	return result
}

func toParticipantDTO(p *chatmodels.Participant) dto.ParticipantDTO {
	result := dto.ParticipantDTO{
		UserID:     p.UserID,
		UserRole:   p.UserRole,
		Role:       p.Role,
		JoinedAt:   p.JoinedAt,
		LastSeenAt: p.LastSeenAt,
	}
	if p.User != nil {
		result.Name = p.User.Name
	}
	return result
}

func toMessageDTO(m *chatmodels.Message) dto.MessageDTO {
	return dto.MessageDTO{
		ID:         m.ID,
		ChatID:     m.ChatID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		SenderRole: m.SenderRole,
		Content:    m.Content,
		Type:       m.Type,
		FileName:   m.FileName,
		FileSize:   m.FileSize,
		FileURL:    m.FileURL,
		MimeType:   m.MimeType,
		ReplyToID:  m.ReplyToID,
		IsEdited:   m.IsEdited,
		CreatedAt:  m.CreatedAt,
	}
}
