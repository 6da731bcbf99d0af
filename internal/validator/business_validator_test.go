package validator

import (
	"testing"

	"github.com/campus-hub/course-service/internal/models"
)

func TestValidateLessonCreate_ContentRules(t *testing.T) {
	bv := NewBusinessValidator()

	tests := []struct {
		name        string
		contentType models.ContentType
		contentURL  string
		wantRule    string // empty means valid
	}{
		{name: "video https", contentType: models.ContentVideo, contentURL: "https://x", wantRule: ""},
		{name: "video http", contentType: models.ContentVideo, contentURL: "http://cdn/video.mp4", wantRule: ""},
		{name: "video ftp", contentType: models.ContentVideo, contentURL: "ftp://x", wantRule: "video_url"},
		{name: "video bare path", contentType: models.ContentVideo, contentURL: "videos/intro.mp4", wantRule: "video_url"},
		{name: "pdf ok", contentType: models.ContentPDF, contentURL: "notes.pdf", wantRule: ""},
		{name: "pdf wrong ext", contentType: models.ContentPDF, contentURL: "notes.txt", wantRule: "pdf_url"},
		{name: "text anything", contentType: models.ContentText, contentURL: "just some inline text", wantRule: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &LessonCreateRequest{
				Title:       "Lesson",
				ContentType: tt.contentType,
				ContentURL:  tt.contentURL,
				CourseID:    1,
			}
			errs := bv.ValidateLessonCreate(req)
			if tt.wantRule == "" {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
			}
			if errs[0].Rule != tt.wantRule {
				t.Errorf("rule = %q, want %q", errs[0].Rule, tt.wantRule)
			}
		})
	}
}

func TestValidateLessonCreate_RequiredFields(t *testing.T) {
	bv := NewBusinessValidator()

	errs := bv.ValidateLessonCreate(&LessonCreateRequest{
		Title:       "Missing everything else",
		ContentType: "podcast",
	})
	if len(errs) == 0 {
		t.Fatal("expected errors for missing course, content_url and bad content_type")
	}

	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	for _, want := range []string{"contenttype", "contenturl", "courseid"} {
		if !fields[want] {
			t.Errorf("missing error for field %q in %v", want, errs)
		}
	}
}

func TestValidateImageUpload(t *testing.T) {
	bv := NewBusinessValidator()

	tests := []struct {
		name     string
		filename string
		size     int64
		wantRule string
	}{
		{name: "jpg", filename: "cover.jpg", size: 1024, wantRule: ""},
		{name: "webp uppercase", filename: "COVER.WEBP", size: 1024, wantRule: ""},
		{name: "gif rejected", filename: "anim.gif", size: 1024, wantRule: "image_extension"},
		{name: "no extension", filename: "cover", size: 1024, wantRule: "image_extension"},
		{name: "exactly 2MiB", filename: "big.png", size: MaxImageSize, wantRule: ""},
		{name: "over 2MiB", filename: "big.png", size: MaxImageSize + 1, wantRule: "image_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := bv.ValidateImageUpload(tt.filename, tt.size)
			if tt.wantRule == "" {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}
			if len(errs) != 1 || errs[0].Rule != tt.wantRule {
				t.Errorf("got %v, want single error with rule %q", errs, tt.wantRule)
			}
		})
	}
}

func TestValidateRegister_RoleClosedSet(t *testing.T) {
	bv := NewBusinessValidator()

	req := &RegisterRequest{
		Username: "sam",
		Email:    "sam@example.com",
		Password: "longenough",
		Role:     "admin",
	}
	errs := bv.ValidateRegister(req)
	if len(errs) != 1 || errs[0].Rule != "user_role" {
		t.Fatalf("expected single user_role error, got %v", errs)
	}

	req.Role = models.RoleInstructor
	if errs := bv.ValidateRegister(req); len(errs) != 0 {
		t.Fatalf("expected valid request, got %v", errs)
	}
}
