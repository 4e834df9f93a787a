package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// jsonFieldNames maps struct field names to their wire names for error messages.
var jsonFieldNames = map[string]string{
	"UserID":         "user_id",
	"DisplayName":    "display_name",
	"CurrentTour":    "current_tour",
	"Amount":         "amount",
	"AmountBaht":     "amount_baht",
	"Description":    "description",
	"Code":           "code",
	"Points":         "points",
	"Name":           "name",
	"NameEN":         "name_en",
	"DescriptionEN":  "description_en",
	"ImageURL":       "image_url",
	"PointsRequired": "points_required",
	"Stock":          "stock",
	"Active":         "active",
	"ProductID":      "product_id",
}

// validationMessage converts the first validator error into a client-facing
// message. Unknown fields and tags fall back to descriptive defaults.
func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "invalid request"
	}

	fe := ve[0]
	field := fe.Field()
	if name, ok := jsonFieldNames[field]; ok {
		field = name
	}

	switch fe.Tag() {
	case "required":
		return "invalid request: " + field + " is required"
	case "notblank":
		return "invalid request: " + field + " cannot be blank"
	case "max":
		return "invalid request: " + field + " exceeds maximum length"
	case "gte":
		return "invalid request: " + field + " must be at least " + fe.Param()
	default:
		return "invalid request: " + field + " is invalid"
	}
}
