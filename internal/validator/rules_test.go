package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub_backend/internal/models"
)

type enumProbe struct {
	UserRole       models.UserRole             `json:"user_role" validate:"omitempty,is-user-role"`
	NotifType      models.NotificationType     `json:"notif_type" validate:"omitempty,is-notification-type"`
	Priority       models.NotificationPriority `json:"priority" validate:"omitempty,is-notification-priority"`
	ChatType       models.ChatType             `json:"chat_type" validate:"omitempty,is-chat-type"`
	MembershipRole models.MembershipRole       `json:"membership_role" validate:"omitempty,is-membership-role"`
}

func TestCustomRules_ValidValues(t *testing.T) {
	v := New()

	err := v.Validate(&enumProbe{
		UserRole:       models.UserRoleTeacher,
		NotifType:      models.NotificationTypeGradeUpdate,
		Priority:       models.NotificationPriorityUrgent,
		ChatType:       models.ChatTypePrivate,
		MembershipRole: models.MembershipRoleModerator,
	})

	assert.NoError(t, err)
}

func TestCustomRules_EmptyValuesPass(t *testing.T) {
	v := New()

	// Presence is the job of 'required', not of the enum rules.
	assert.NoError(t, v.Validate(&enumProbe{}))
}

func TestCustomRules_InvalidValuesRejected(t *testing.T) {
	v := New()

	err := v.Validate(&enumProbe{
		UserRole:       "principal",
		NotifType:      "spam",
		Priority:       "asap",
		ChatType:       "broadcast",
		MembershipRole: "owner",
	})

	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	assert.Len(t, vErr.Errors, 5)
	assert.Equal(t, "Invalid user role", vErr.Errors["user_role"])
	assert.Equal(t, "Invalid notification type", vErr.Errors["notif_type"])
	assert.Equal(t, "Invalid chat type", vErr.Errors["chat_type"])
}

func TestValidator_UsesJSONFieldNames(t *testing.T) {
	v := New()

	probe := struct {
		Email string `json:"email_address" validate:"required,email"`
	}{Email: "not-an-email"}

	err := v.Validate(&probe)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "email_address")
	assert.Equal(t, "Must be a valid email address", vErr.Errors["email_address"])
}
