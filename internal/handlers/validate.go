package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"servicedir/internal/models"
)

// validate is shared; validator caches struct metadata per type.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names instead of Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest checks v against its validate tags. The first failing
// field is reported, wrapped in models.ErrInvalidArgument.
func validateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%s: %w", describe(verrs[0]), models.ErrInvalidArgument)
	}
	return fmt.Errorf("validate request: %v: %w", err, models.ErrInvalidArgument)
}

// describe turns a field error into a short human message.
func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s is too long (max %s characters)", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is not a valid %s", fe.Field(), fe.Tag())
	}
}

// priorityRequest is the body of PUT /providers/{id}/priority.
type priorityRequest struct {
	SortOrder int `json:"sort_order" validate:"min=1,max=2147483647"`
}

// statusRequest is the body of PUT /providers/{id}/status. The field name
// is checked case-insensitively by models.ParseStatusField.
type statusRequest struct {
	Field string `json:"field" validate:"required"`
	Value *bool  `json:"value" validate:"required"`
}

// providerRequest is the body of POST /providers.
type providerRequest struct {
	BusinessName      string   `json:"business_name" validate:"required,max=300"`
	Slug              string   `json:"slug" validate:"max=300"`
	Description       string   `json:"description" validate:"max=5000"`
	Phone             string   `json:"phone" validate:"max=50"`
	Email             string   `json:"email" validate:"omitempty,email,max=255"`
	Website           string   `json:"website" validate:"omitempty,url,max=500"`
	Address           string   `json:"address" validate:"max=500"`
	City              string   `json:"city" validate:"max=200"`
	Active            *bool    `json:"active"`
	Featured          bool     `json:"featured"`
	Premium           bool     `json:"premium"`
	Verified          bool     `json:"verified"`
	SortOrder         int      `json:"sort_order" validate:"min=0,max=2147483647"`
	Rating            *float64 `json:"rating" validate:"omitnil,min=0,max=5"`
	ReviewCount       *int     `json:"review_count" validate:"omitnil,min=0"`
	GoogleRating      *float64 `json:"google_rating" validate:"omitnil,min=0,max=5"`
	GoogleReviewCount *int     `json:"google_review_count" validate:"omitnil,min=0"`
	GooglePlacesID    *string  `json:"google_places_id" validate:"omitnil,max=255"`
}

func (p *providerRequest) provider() *models.Provider {
	return &models.Provider{
		BusinessName: strings.TrimSpace(p.BusinessName),
		Slug:         p.Slug,
		Description:  p.Description,
		Phone:        p.Phone,
		Email:        p.Email,
		Website:      p.Website,
		Address:      p.Address,
		City:         p.City,
		StatusFlags: models.StatusFlags{
			Active:   p.Active == nil || *p.Active,
			Featured: p.Featured,
			Premium:  p.Premium,
			Verified: p.Verified,
		},
		SortOrder:         p.SortOrder,
		Rating:            p.Rating,
		ReviewCount:       p.ReviewCount,
		GoogleRating:      p.GoogleRating,
		GoogleReviewCount: p.GoogleReviewCount,
		GooglePlacesID:    p.GooglePlacesID,
	}
}

// serviceRequest is the body of POST /providers/{id}/services.
type serviceRequest struct {
	CategoryID  string   `json:"category_id" validate:"required,uuid"`
	Price       *float64 `json:"price" validate:"omitnil,min=0"`
	Description string   `json:"description" validate:"max=1000"`
}

// categoryRequest is the body of POST /categories.
type categoryRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Slug        string  `json:"slug" validate:"max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Icon        string  `json:"icon" validate:"max=100"`
	Level       string  `json:"level" validate:"required,oneof=primary secondary tertiary"`
	ParentID    *string `json:"parent_id" validate:"omitnil,uuid"`
	SortOrder   *int    `json:"sort_order" validate:"omitnil,min=0,max=2147483647"`
	Active      *bool   `json:"active"`
}

// categoryUpdateRequest is the body of PUT /categories/{id}. Omitted
// fields are left unchanged; an empty slug is regenerated from the name.
type categoryUpdateRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=200"`
	Slug        *string `json:"slug" validate:"omitnil,max=200"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
	Icon        *string `json:"icon" validate:"omitnil,max=100"`
	SortOrder   *int    `json:"sort_order" validate:"omitnil,min=0,max=2147483647"`
	Active      *bool   `json:"active"`
}
