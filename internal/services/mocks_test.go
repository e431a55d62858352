package services

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"sync"
	"time"

	"schoolhub_backend/internal/email"
	"schoolhub_backend/internal/models"
	chatmodels "schoolhub_backend/internal/models/chat"
	"schoolhub_backend/internal/repositories"
	chatrepo "schoolhub_backend/internal/repositories/chat"
)

// ---------------- user repository ----------------

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindBySchool(schoolID string, criteria repositories.UserCriteria) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range r.users {
		if u.SchoolID == schoolID {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) FindByClass(classID string, role models.UserRole) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		if u.ClassID != nil && *u.ClassID == classID && u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FindByIDs(ids []string) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdatePassword(id, passwordHash string) error {
	if u, ok := r.users[id]; ok {
		u.PasswordHash = passwordHash
		return nil
	}
	return repositories.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateStatus(id string, status models.UserStatus) error {
	if u, ok := r.users[id]; ok {
		u.Status = status
		return nil
	}
	return repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Delete(id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) CountByRole(schoolID string) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, u := range r.users {
		if u.SchoolID == schoolID {
			out[string(u.Role)]++
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ExistsAdmin() (bool, error) {
	for _, u := range r.users {
		if u.Role == models.UserRoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

// ---------------- notification repository ----------------

type fakeNotificationRepo struct {
	mu            sync.Mutex
	stored        []*models.Notification
	byID          map[string]*models.Notification
	ownedCount    int64
	markedAllFor  []string
	bulkUpdates   []map[string]interface{}
	bulkDeleted   [][]string
	flagCalls     []string
	createErr     error
	createBulkErr error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{byID: make(map[string]*models.Notification)}
}

func (r *fakeNotificationRepo) put(n *models.Notification) {
	r.byID[n.ID] = n
}

func (r *fakeNotificationRepo) Create(n *models.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = append(r.stored, n)
	return nil
}

func (r *fakeNotificationRepo) CreateBulk(ns []*models.Notification) error {
	if r.createBulkErr != nil {
		return r.createBulkErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = append(r.stored, ns...)
	return nil
}

func (r *fakeNotificationRepo) FindByID(id string) (*models.Notification, error) {
	if n, ok := r.byID[id]; ok {
		return n, nil
	}
	return nil, repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) FindByRecipient(recipientID string, criteria repositories.NotificationCriteria) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range r.stored {
		if n.RecipientID == recipientID {
			out = append(out, *n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) MarkAsRead(id, recipientID string) error {
	r.flagCalls = append(r.flagCalls, "read:"+id)
	return nil
}

func (r *fakeNotificationRepo) MarkAsUnread(id, recipientID string) error {
	r.flagCalls = append(r.flagCalls, "unread:"+id)
	return nil
}

func (r *fakeNotificationRepo) Archive(id, recipientID string) error {
	r.flagCalls = append(r.flagCalls, "archive:"+id)
	return nil
}

func (r *fakeNotificationRepo) Unarchive(id, recipientID string) error {
	r.flagCalls = append(r.flagCalls, "unarchive:"+id)
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(recipientID string) (int64, error) {
	r.markedAllFor = append(r.markedAllFor, recipientID)
	return 3, nil
}

func (r *fakeNotificationRepo) CountOwned(ids []string, recipientID string) (int64, error) {
	return r.ownedCount, nil
}

func (r *fakeNotificationRepo) BulkUpdate(ids []string, recipientID string, fields map[string]interface{}) error {
	r.bulkUpdates = append(r.bulkUpdates, fields)
	return nil
}

func (r *fakeNotificationRepo) BulkDelete(ids []string, recipientID string) error {
	r.bulkDeleted = append(r.bulkDeleted, ids)
	return nil
}

func (r *fakeNotificationRepo) UnreadCount(recipientID string) (int64, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) Stats(recipientID string) (*repositories.NotificationStats, error) {
	return &repositories.NotificationStats{}, nil
}

func (r *fakeNotificationRepo) DeleteExpired(now time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) DeleteReadOlderThan(cutoff time.Time) (int64, error) {
	return 0, nil
}

// ---------------- broadcaster ----------------

type recordingBroadcaster struct {
	mu         sync.Mutex
	userEvents map[string][]Event
	chatEvents map[string][]Event
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{
		userEvents: make(map[string][]Event),
		chatEvents: make(map[string][]Event),
	}
}

func (b *recordingBroadcaster) EmitToUser(userID string, event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.userEvents[userID] = append(b.userEvents[userID], event)
}

func (b *recordingBroadcaster) EmitToChat(chatID string, event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chatEvents[chatID] = append(b.chatEvents[chatID], event)
}

// ---------------- chat repositories ----------------

type fakeChatRepo struct {
	chats       map[string]*chatmodels.Chat
	classChats  map[string]*chatmodels.Chat // classID -> chat
	deactivated []string
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:      make(map[string]*chatmodels.Chat),
		classChats: make(map[string]*chatmodels.Chat),
	}
}

func (r *fakeChatRepo) Create(chat *chatmodels.Chat) error {
	if chat.ID == "" {
		chat.ID = "chat-" + chat.Name
	}
	r.chats[chat.ID] = chat
	if chat.ClassID != nil {
		r.classChats[*chat.ClassID] = chat
	}
	return nil
}

func (r *fakeChatRepo) FindByID(id string) (*chatmodels.Chat, error) {
	if c, ok := r.chats[id]; ok {
		return c, nil
	}
	return nil, chatrepo.ErrChatNotFound
}

func (r *fakeChatRepo) FindClassChat(classID, schoolID string) (*chatmodels.Chat, error) {
	if c, ok := r.classChats[classID]; ok {
		return c, nil
	}
	return nil, chatrepo.ErrChatNotFound
}

func (r *fakeChatRepo) FindPrivateChat(user1ID, user2ID string) (*chatmodels.Chat, error) {
	return nil, chatrepo.ErrChatNotFound
}

func (r *fakeChatRepo) FindAllByUser(userID string) ([]chatmodels.Chat, error) {
	return nil, nil
}

func (r *fakeChatRepo) Deactivate(id string) error {
	r.deactivated = append(r.deactivated, id)
	return nil
}

type fakeParticipantRepo struct {
	participants map[string]map[string]*chatmodels.Participant // chatID -> userID
	created      []chatmodels.Participant
	lastSeen     map[string]time.Time
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{
		participants: make(map[string]map[string]*chatmodels.Participant),
		lastSeen:     make(map[string]time.Time),
	}
}

func (r *fakeParticipantRepo) add(chatID, userID string, role models.MembershipRole) {
	if r.participants[chatID] == nil {
		r.participants[chatID] = make(map[string]*chatmodels.Participant)
	}
	r.participants[chatID][userID] = &chatmodels.Participant{
		ChatID: chatID,
		UserID: userID,
		Role:   role,
	}
}

func (r *fakeParticipantRepo) CreateMany(participants []chatmodels.Participant) error {
	r.created = append(r.created, participants...)
	for i := range participants {
		r.add(participants[i].ChatID, participants[i].UserID, participants[i].Role)
	}
	return nil
}

func (r *fakeParticipantRepo) Find(chatID, userID string) (*chatmodels.Participant, error) {
	if p, ok := r.participants[chatID][userID]; ok {
		return p, nil
	}
	return nil, chatrepo.ErrParticipantNotFound
}

func (r *fakeParticipantRepo) IsUserInChat(userID, chatID string) (bool, error) {
	_, ok := r.participants[chatID][userID]
	return ok, nil
}

func (r *fakeParticipantRepo) GetParticipants(chatID string) ([]chatmodels.Participant, error) {
	var out []chatmodels.Participant
	for _, p := range r.participants[chatID] {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeParticipantRepo) UpdateLastSeen(userID, chatID string, t time.Time) error {
	r.lastSeen[chatID+":"+userID] = t
	return nil
}

func (r *fakeParticipantRepo) UpdateRole(chatID, userID string, role models.MembershipRole) error {
	if p, ok := r.participants[chatID][userID]; ok {
		p.Role = role
		return nil
	}
	return chatrepo.ErrParticipantNotFound
}

func (r *fakeParticipantRepo) Remove(chatID, userID string) error {
	if _, ok := r.participants[chatID][userID]; !ok {
		return chatrepo.ErrParticipantNotFound
	}
	delete(r.participants[chatID], userID)
	return nil
}

type fakeMessageRepo struct {
	messages []chatmodels.Message
}

func (r *fakeMessageRepo) Create(message *chatmodels.Message) error {
	if message.ID == "" {
		message.ID = "msg-" + time.Now().Format("150405.000000000")
	}
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeMessageRepo) FindByID(id string) (*chatmodels.Message, error) {
	for i := range r.messages {
		if r.messages[i].ID == id {
			return &r.messages[i], nil
		}
	}
	return nil, chatrepo.ErrMessageNotFound
}

func (r *fakeMessageRepo) FindByChat(chatID string, page, limit int) ([]chatmodels.Message, int64, error) {
	var out []chatmodels.Message
	for i := range r.messages {
		if r.messages[i].ChatID == chatID {
			out = append(out, r.messages[i])
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeMessageRepo) CountAfter(chatID, excludeSenderID string, after time.Time) (int64, error) {
	var n int64
	for i := range r.messages {
		m := &r.messages[i]
		if m.ChatID == chatID && m.SenderID != excludeSenderID && m.CreatedAt.After(after) {
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) UpdateContent(id, content string) error { return nil }
func (r *fakeMessageRepo) Delete(id string) error                 { return nil }

type fakeReceiptRepo struct {
	upserts []string
}

func (r *fakeReceiptRepo) Upsert(messageID, userID string, readAt time.Time) error {
	r.upserts = append(r.upserts, messageID+":"+userID)
	return nil
}

func (r *fakeReceiptRepo) FindByMessage(messageID string) ([]chatmodels.ReadReceipt, error) {
	return nil, nil
}

// ---------------- subject / class repositories ----------------

type fakeSubjectRepo struct {
	subjects []models.Subject
	assigned []string // subjectID:teacherID
}

func (r *fakeSubjectRepo) Create(subject *models.Subject) error { return nil }

func (r *fakeSubjectRepo) FindByID(id string) (*models.Subject, error) {
	for i := range r.subjects {
		if r.subjects[i].ID == id {
			return &r.subjects[i], nil
		}
	}
	return nil, repositories.ErrSubjectNotFound
}

func (r *fakeSubjectRepo) FindByClass(classID string) ([]models.Subject, error) {
	var out []models.Subject
	for i := range r.subjects {
		if r.subjects[i].ClassID == classID {
			out = append(out, r.subjects[i])
		}
	}
	return out, nil
}

func (r *fakeSubjectRepo) FindByTeacher(teacherID string) ([]models.Subject, error) {
	return nil, nil
}

func (r *fakeSubjectRepo) FindBySchool(schoolID string, page, pageSize int) ([]models.Subject, int64, error) {
	return nil, 0, nil
}

func (r *fakeSubjectRepo) Update(subject *models.Subject) error { return nil }

func (r *fakeSubjectRepo) AssignTeacher(subjectID, teacherID string) error {
	r.assigned = append(r.assigned, subjectID+":"+teacherID)
	return nil
}

func (r *fakeSubjectRepo) Delete(id string) error { return nil }

func (r *fakeSubjectRepo) AssignmentCounts(schoolID string) ([]repositories.SubjectAssignmentCount, error) {
	return nil, nil
}

type fakeClassRepo struct {
	classes map[string]*models.Class
}

func newFakeClassRepo(classes ...*models.Class) *fakeClassRepo {
	r := &fakeClassRepo{classes: make(map[string]*models.Class)}
	for _, c := range classes {
		r.classes[c.ID] = c
	}
	return r
}

func (r *fakeClassRepo) Create(class *models.Class) error { return nil }

func (r *fakeClassRepo) FindByID(id string) (*models.Class, error) {
	if c, ok := r.classes[id]; ok {
		return c, nil
	}
	return nil, repositories.ErrClassNotFound
}

func (r *fakeClassRepo) FindBySchool(schoolID string, page, pageSize int) ([]models.Class, int64, error) {
	return nil, 0, nil
}

func (r *fakeClassRepo) Update(class *models.Class) error { return nil }
func (r *fakeClassRepo) Delete(id string) error           { return nil }

func (r *fakeClassRepo) GradeAverages(classID string) ([]repositories.SubjectAverage, error) {
	return nil, nil
}

// ---------------- registration repositories ----------------

type fakeRequestRepo struct {
	requests map[string]*models.TeacherRequest
	seq      int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]*models.TeacherRequest)}
}

func (r *fakeRequestRepo) Create(request *models.TeacherRequest) error {
	if request.ID == "" {
		r.seq++
		request.ID = "req-" + strconv.Itoa(r.seq)
	}
	r.requests[request.ID] = request
	return nil
}

func (r *fakeRequestRepo) FindByID(id string) (*models.TeacherRequest, error) {
	if req, ok := r.requests[id]; ok {
		return req, nil
	}
	return nil, repositories.ErrRequestNotFound
}

func (r *fakeRequestRepo) FindBySchool(schoolID string, status models.RequestStatus, page, pageSize int) ([]models.TeacherRequest, int64, error) {
	var out []models.TeacherRequest
	for _, req := range r.requests {
		if req.SchoolID == schoolID && (status == "" || req.Status == status) {
			out = append(out, *req)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRequestRepo) Decide(id string, status models.RequestStatus, decidedByID string) error {
	req, ok := r.requests[id]
	if !ok || req.Status != models.RequestStatusPending {
		return repositories.ErrRequestAlreadyClosed
	}
	req.Status = status
	return nil
}

type fakeRegistrationRepo struct {
	registrations map[string]*models.StudentRegistration
	seq           int
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{registrations: make(map[string]*models.StudentRegistration)}
}

func (r *fakeRegistrationRepo) Create(registration *models.StudentRegistration) error {
	if registration.ID == "" {
		r.seq++
		registration.ID = "reg-" + strconv.Itoa(r.seq)
	}
	r.registrations[registration.ID] = registration
	return nil
}

func (r *fakeRegistrationRepo) FindByID(id string) (*models.StudentRegistration, error) {
	if reg, ok := r.registrations[id]; ok {
		return reg, nil
	}
	return nil, repositories.ErrRequestNotFound
}

func (r *fakeRegistrationRepo) FindBySchool(schoolID string, status models.RequestStatus, page, pageSize int) ([]models.StudentRegistration, int64, error) {
	var out []models.StudentRegistration
	for _, reg := range r.registrations {
		if reg.SchoolID == schoolID && (status == "" || reg.Status == status) {
			out = append(out, *reg)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRegistrationRepo) Decide(id string, status models.RequestStatus, decidedByID string) error {
	reg, ok := r.registrations[id]
	if !ok || reg.Status != models.RequestStatusPending {
		return repositories.ErrRequestAlreadyClosed
	}
	reg.Status = status
	return nil
}

type fakeSchoolRepo struct {
	schools map[string]*models.School
}

func newFakeSchoolRepo(schools ...*models.School) *fakeSchoolRepo {
	r := &fakeSchoolRepo{schools: make(map[string]*models.School)}
	for _, s := range schools {
		r.schools[s.ID] = s
	}
	return r
}

func (r *fakeSchoolRepo) Create(school *models.School) error { return nil }

func (r *fakeSchoolRepo) FindByID(id string) (*models.School, error) {
	if s, ok := r.schools[id]; ok {
		return s, nil
	}
	return nil, repositories.ErrSchoolNotFound
}

func (r *fakeSchoolRepo) FindByCode(code string) (*models.School, error) {
	for _, s := range r.schools {
		if s.Code == code {
			return s, nil
		}
	}
	return nil, repositories.ErrSchoolNotFound
}

func (r *fakeSchoolRepo) FindAll(page, pageSize int) ([]models.School, int64, error) {
	return nil, 0, nil
}

func (r *fakeSchoolRepo) Update(school *models.School) error { return nil }
func (r *fakeSchoolRepo) Deactivate(id string) error         { return nil }

// ---------------- mailer ----------------

type sentMail struct {
	to       []string
	subject  string
	template string
	data     email.TemplateData
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) Send(e *email.Email) error { return nil }

func (m *fakeMailer) Validate() error { return nil }

func (m *fakeMailer) SendTemplate(to []string, subject, templateName string, data email.TemplateData) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, template: templateName, data: data})
	return nil
}

// ---------------- storage ----------------

type fakeStorage struct {
	saved map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: make(map[string][]byte)}
}

func (s *fakeStorage) Save(ctx context.Context, path string, reader io.Reader, contentType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return err
	}
	s.saved[path] = buf.Bytes()
	return nil
}

func (s *fakeStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.saved[path])), nil
}

func (s *fakeStorage) Delete(ctx context.Context, path string) error {
	delete(s.saved, path)
	return nil
}

func (s *fakeStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, ok := s.saved[path]
	return ok, nil
}

func (s *fakeStorage) GetURL(ctx context.Context, path string) (string, error) {
	return "/files/" + path, nil
}

func (s *fakeStorage) GetSignedURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return "/signed/" + path, nil
}
