// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"finpal/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("transaction_category", validateTransactionCategory)
		_ = v.RegisterValidation("nudge_type", validateNudgeType)
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "need", "want", "income", "expense":
		return true
	}
	return false
}

// validateTransactionCategory accepts canonical categories and the legacy
// aliases; services normalize the aliases before persisting.
func validateTransactionCategory(fl validator.FieldLevel) bool {
	_, ok := models.NormalizeCategory(models.TransactionCategory(fl.Field().String()))
	return ok
}

func validateNudgeType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "info", "warning", "achievement", "tip":
		return true
	}
	return false
}
