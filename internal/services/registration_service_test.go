package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub_backend/internal/auth"
	"schoolhub_backend/internal/email"
	"schoolhub_backend/internal/models"
	"schoolhub_backend/internal/services/dto"
	"schoolhub_backend/pkg/apperrors"
)

type registrationFixture struct {
	requestRepo      *fakeRequestRepo
	registrationRepo *fakeRegistrationRepo
	userRepo         *fakeUserRepo
	subjectRepo      *fakeSubjectRepo
	notifRepo        *fakeNotificationRepo
	mailer           *fakeMailer
	svc              RegistrationService
}

func newRegistrationFixture(t *testing.T) *registrationFixture {
	t.Helper()

	classID := "class-1"
	teacherID := "teacher-1"

	f := &registrationFixture{
		requestRepo:      newFakeRequestRepo(),
		registrationRepo: newFakeRegistrationRepo(),
		subjectRepo: &fakeSubjectRepo{subjects: []models.Subject{
			{BaseModel: models.BaseModel{ID: "subj-1"}, Name: "Algebra", ClassID: classID, TeacherID: &teacherID},
		}},
		notifRepo: newFakeNotificationRepo(),
		mailer:    &fakeMailer{},
	}
	f.userRepo = newFakeUserRepo(
		&models.User{
			BaseModel: models.BaseModel{ID: "existing-1"},
			Name:      "Marat",
			Email:     "marat@example.com",
			Role:      models.UserRoleTeacher,
			Status:    models.UserStatusActive,
			SchoolID:  "school-1",
		},
	)

	f.svc = NewRegistrationService(
		f.requestRepo,
		f.registrationRepo,
		f.userRepo,
		f.subjectRepo,
		newFakeClassRepo(&models.Class{BaseModel: models.BaseModel{ID: classID}, Name: "10-A", SchoolID: "school-1"}),
		newFakeSchoolRepo(&models.School{BaseModel: models.BaseModel{ID: "school-1"}, Name: "Lyceum 12", Code: "L12"}),
		NewNotificationService(f.notifRepo, f.userRepo, &NopBroadcaster{}),
		f.mailer,
	)
	return f
}

func TestSubmitTeacherRequest_UnknownSchool(t *testing.T) {
	f := newRegistrationFixture(t)

	_, err := f.svc.SubmitTeacherRequest(&dto.SubmitTeacherRequest{
		Email:    "new@example.com",
		Name:     "Aliya",
		SchoolID: "school-x",
	})

	assert.ErrorIs(t, err, apperrors.ErrSchoolNotFound)
	assert.Empty(t, f.requestRepo.requests)
}

func TestSubmitTeacherRequest_ProvisionsPendingAccount(t *testing.T) {
	f := newRegistrationFixture(t)

	request, err := f.svc.SubmitTeacherRequest(&dto.SubmitTeacherRequest{
		Email:     "new@example.com",
		Name:      "Aliya",
		SchoolID:  "school-1",
		SubjectID: "subj-1",
	})

	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, request.Status)

	applicant, err := f.userRepo.FindByEmail("new@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleTeacher, applicant.Role)
	assert.Equal(t, models.UserStatusPending, applicant.Status, "account stays dormant until approval")
	assert.Equal(t, applicant.ID, request.ApplicantID)
}

func TestSubmitTeacherRequest_ReusesExistingAccount(t *testing.T) {
	f := newRegistrationFixture(t)

	request, err := f.svc.SubmitTeacherRequest(&dto.SubmitTeacherRequest{
		Email:    "marat@example.com",
		Name:     "Marat",
		SchoolID: "school-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "existing-1", request.ApplicantID)
	assert.Len(t, f.userRepo.users, 1, "no duplicate account for a known email")
}

func TestDecideTeacherRequest_ApproveActivatesAndAssigns(t *testing.T) {
	f := newRegistrationFixture(t)
	request, err := f.svc.SubmitTeacherRequest(&dto.SubmitTeacherRequest{
		Email:     "new@example.com",
		Name:      "Aliya",
		SchoolID:  "school-1",
		SubjectID: "subj-1",
	})
	require.NoError(t, err)

	err = f.svc.DecideTeacherRequest("admin-1", request.ID, &dto.DecideRequest{Approve: true})

	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, f.requestRepo.requests[request.ID].Status)

	applicant, err := f.userRepo.FindByID(request.ApplicantID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusActive, applicant.Status)
	assert.Equal(t, []string{"subj-1:" + request.ApplicantID}, f.subjectRepo.assigned)

	require.Len(t, f.notifRepo.stored, 1)
	assert.Equal(t, models.NotificationTypeRequestStatus, f.notifRepo.stored[0].Type)
	assert.Contains(t, f.notifRepo.stored[0].Message, "Algebra")

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, email.TemplateRequestApproved, f.mailer.sent[0].template)
	assert.Equal(t, []string{"new@example.com"}, f.mailer.sent[0].to)
}

func TestDecideTeacherRequest_RejectLeavesAccountDormant(t *testing.T) {
	f := newRegistrationFixture(t)
	request, err := f.svc.SubmitTeacherRequest(&dto.SubmitTeacherRequest{
		Email:    "new@example.com",
		Name:     "Aliya",
		SchoolID: "school-1",
	})
	require.NoError(t, err)

	err = f.svc.DecideTeacherRequest("admin-1", request.ID, &dto.DecideRequest{Approve: false, Reason: "no vacancy"})

	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, f.requestRepo.requests[request.ID].Status)

	applicant, err := f.userRepo.FindByID(request.ApplicantID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusPending, applicant.Status)
	assert.Empty(t, f.subjectRepo.assigned)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, email.TemplateRequestRejected, f.mailer.sent[0].template)
}

func TestDecideTeacherRequest_AlreadyDecided(t *testing.T) {
	f := newRegistrationFixture(t)
	request, err := f.svc.SubmitTeacherRequest(&dto.SubmitTeacherRequest{
		Email:    "new@example.com",
		Name:     "Aliya",
		SchoolID: "school-1",
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.DecideTeacherRequest("admin-1", request.ID, &dto.DecideRequest{Approve: true}))

	err = f.svc.DecideTeacherRequest("admin-1", request.ID, &dto.DecideRequest{Approve: false})

	assert.ErrorIs(t, err, apperrors.ErrRequestAlreadyDecided)
}

func TestSubmitStudentRegistration_DuplicateEmail(t *testing.T) {
	f := newRegistrationFixture(t)

	_, err := f.svc.SubmitStudentRegistration(&dto.SubmitStudentRegistration{
		Name:     "Marat",
		Email:    "marat@example.com",
		SchoolID: "school-1",
		ClassID:  "class-1",
	})

	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestSubmitStudentRegistration_UnknownClass(t *testing.T) {
	f := newRegistrationFixture(t)

	_, err := f.svc.SubmitStudentRegistration(&dto.SubmitStudentRegistration{
		Name:     "Dina",
		Email:    "dina@example.com",
		SchoolID: "school-1",
		ClassID:  "class-x",
	})

	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)
}

func TestDecideStudentRegistration_ApproveProvisionsStudent(t *testing.T) {
	f := newRegistrationFixture(t)
	registration, err := f.svc.SubmitStudentRegistration(&dto.SubmitStudentRegistration{
		Name:     "Dina",
		Email:    "dina@example.com",
		SchoolID: "school-1",
		ClassID:  "class-1",
	})
	require.NoError(t, err)

	err = f.svc.DecideStudentRegistration("admin-1", registration.ID, &dto.DecideRequest{Approve: true})

	require.NoError(t, err)

	student, err := f.userRepo.FindByEmail("dina@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleStudent, student.Role)
	assert.Equal(t, models.UserStatusActive, student.Status)
	require.NotNil(t, student.ClassID)
	assert.Equal(t, "class-1", *student.ClassID)
	assert.True(t, student.IsVerified)

	require.Len(t, f.mailer.sent, 1)
	sent := f.mailer.sent[0]
	assert.Equal(t, email.TemplateStudentApproved, sent.template)

	// The credentials mail carries a working generated password.
	password, ok := sent.data["Password"].(string)
	require.True(t, ok)
	assert.True(t, auth.CheckPasswordHash(password, student.PasswordHash))
}

func TestDecideStudentRegistration_RejectCreatesNoAccount(t *testing.T) {
	f := newRegistrationFixture(t)
	registration, err := f.svc.SubmitStudentRegistration(&dto.SubmitStudentRegistration{
		Name:     "Dina",
		Email:    "dina@example.com",
		SchoolID: "school-1",
		ClassID:  "class-1",
	})
	require.NoError(t, err)

	err = f.svc.DecideStudentRegistration("admin-1", registration.ID, &dto.DecideRequest{Approve: false, Reason: "class full"})

	require.NoError(t, err)
	_, err = f.userRepo.FindByEmail("dina@example.com")
	assert.Error(t, err, "rejection must not provision an account")

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, email.TemplateStudentRejected, f.mailer.sent[0].template)
	assert.Equal(t, "class full", f.mailer.sent[0].data["Reason"])
}
