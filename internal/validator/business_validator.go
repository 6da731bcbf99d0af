package validator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/campus-hub/course-service/internal/models"
)

// MaxImageSize is the upload limit for course images and profile
// pictures (2 MiB).
const MaxImageSize = 2 * 1024 * 1024

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ValidationError describes a single failed rule on a single field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates field errors; a nil/empty slice means the
// input passed.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation passed"
	}
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// ToValidationErrors converts go-playground validator errors into our
// error slice.
func ToValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var errors ValidationErrors
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			errors = append(errors, ValidationError{
				Field:   strings.ToLower(fe.Field()),
				Message: messageForTag(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
		return errors
	}

	return ValidationErrors{{Field: "request", Message: err.Error(), Rule: "invalid"}}
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "user_role":
		return "must be either 'student' or 'instructor'"
	case "content_type":
		return "must be one of 'video', 'pdf', 'text'"
	default:
		return fmt.Sprintf("failed on rule '%s'", fe.Tag())
	}
}

// BusinessValidator handles struct-tag validation plus the cross-field
// rules that tags cannot express.
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates struct tags for any request struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

func (bv *BusinessValidator) registerBusinessRules() {
	// role validation: closed set
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.ValidRole(models.UserRole(fl.Field().String()))
	})

	// lesson content type validation
	bv.validate.RegisterValidation("content_type", func(fl validator.FieldLevel) bool {
		ct := models.ContentType(fl.Field().String())
		return ct == models.ContentVideo || ct == models.ContentPDF || ct == models.ContentText
	})
}

// ValidateRegister validates user registration business rules
func (bv *BusinessValidator) ValidateRegister(req *RegisterRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateCourseCreate validates course creation business rules
func (bv *BusinessValidator) ValidateCourseCreate(req *CourseCreateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateCourseUpdate validates course update business rules
func (bv *BusinessValidator) ValidateCourseUpdate(req *CourseUpdateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateLessonCreate validates lesson creation: struct tags first, then
// the per-content-type format rules. A violation here means no lesson
// row is written.
func (bv *BusinessValidator) ValidateLessonCreate(req *LessonCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.validateLessonContentRules(req)...)

	return errors
}

// validateLessonContentRules enforces the content_url format per content
// type: video must be an http(s) URL, pdf must point at a .pdf file,
// text is unconstrained.
func (bv *BusinessValidator) validateLessonContentRules(req *LessonCreateRequest) ValidationErrors {
	var errors ValidationErrors

	switch req.ContentType {
	case models.ContentVideo:
		if !strings.HasPrefix(req.ContentURL, "http://") && !strings.HasPrefix(req.ContentURL, "https://") {
			errors = append(errors, ValidationError{
				Field:   "content_url",
				Message: "video content must be a valid URL",
				Value:   req.ContentURL,
				Rule:    "video_url",
			})
		}
	case models.ContentPDF:
		if !strings.HasSuffix(req.ContentURL, ".pdf") {
			errors = append(errors, ValidationError{
				Field:   "content_url",
				Message: "pdf content must be a PDF file",
				Value:   req.ContentURL,
				Rule:    "pdf_url",
			})
		}
	case models.ContentText:
		// no format constraint
	}

	return errors
}

// ValidateImageUpload checks the filename extension and declared size of
// an uploaded image. Violations reject before anything touches the blob
// store.
func (bv *BusinessValidator) ValidateImageUpload(filename string, size int64) ValidationErrors {
	var errors ValidationErrors

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExtensions[ext] {
		errors = append(errors, ValidationError{
			Field:   "image",
			Message: "file extension must be one of jpg, jpeg, png, webp",
			Value:   ext,
			Rule:    "image_extension",
		})
	}

	if size > MaxImageSize {
		errors = append(errors, ValidationError{
			Field:   "image",
			Message: "image size too large (max 2MB)",
			Value:   size,
			Rule:    "image_size",
		})
	}

	return errors
}

// ValidateEnroll validates enrollment requests
func (bv *BusinessValidator) ValidateEnroll(req *EnrollRequest) ValidationErrors {
	return bv.Validate(req)
}
