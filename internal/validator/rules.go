package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"schoolhub_backend/internal/models"
)

// registerCustomRules wires the enum rules into the validator instance.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-notification-type", validateNotificationType)
	mustRegister("is-notification-priority", validateNotificationPriority)
	mustRegister("is-chat-type", validateChatType)
	mustRegister("is-membership-role", validateMembershipRole)
}

// Empty values pass: 'required' owns presence checks.

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidUserRole(models.UserRole(value))
}

func validateNotificationType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidNotificationType(models.NotificationType(value))
}

func validateNotificationPriority(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidNotificationPriority(models.NotificationPriority(value))
}

func validateChatType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.ChatType(value) {
	case models.ChatTypeClass, models.ChatTypeSubject, models.ChatTypePrivate, models.ChatTypeGroup:
		return true
	default:
		return false
	}
}

func validateMembershipRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.MembershipRole(value) {
	case models.MembershipRoleAdmin, models.MembershipRoleModerator, models.MembershipRoleMember:
		return true
	default:
		return false
	}
}
