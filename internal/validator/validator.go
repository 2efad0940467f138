// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"utilityledger/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("utility_type", validateUtilityType)
		_ = v.RegisterValidation("user_role", validateUserRole)
	}
}

func validateUtilityType(fl validator.FieldLevel) bool {
	return models.UtilityType(fl.Field().String()).Valid()
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case models.RoleAdmin, models.RoleUser:
		return true
	}
	return false
}
