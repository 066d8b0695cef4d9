package api

import (
	"net/url"
	"strconv"
)

// ChallengeType is how a practice challenge is completed.
type ChallengeType string

const (
	TextResponse       ChallengeType = "text_response"
	CheckboxCompletion ChallengeType = "checkbox_completion"
	PhotoUpload        ChallengeType = "photo_upload"
)

// Label returns the human-readable challenge type.
func (t ChallengeType) Label() string {
	switch t {
	case TextResponse:
		return "Text Response"
	case CheckboxCompletion:
		return "Checkbox"
	case PhotoUpload:
		return "Photo Upload"
	default:
		return string(t)
	}
}

// Difficulty grades a practice challenge.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the difficulty levels in ascending order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// Label returns the capitalized difficulty name.
func (d Difficulty) Label() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	case "":
		return "All"
	default:
		return string(d)
	}
}

// CompletionStatus is the review state of a submitted completion.
type CompletionStatus string

const (
	StatusCompleted     CompletionStatus = "completed"
	StatusPendingReview CompletionStatus = "pending_review"
	StatusFailed        CompletionStatus = "failed"
)

// ContentType is the media kind of a mind content item.
type ContentType string

const (
	Video   ContentType = "video"
	Article ContentType = "article"
	Podcast ContentType = "podcast"
	Book    ContentType = "book"
)

// ContentTypes lists the content types offered in pickers.
var ContentTypes = []ContentType{Article, Video, Podcast, Book}

// Label returns the capitalized content type.
func (c ContentType) Label() string {
	switch c {
	case Video:
		return "Video"
	case Article:
		return "Article"
	case Podcast:
		return "Podcast"
	case Book:
		return "Book"
	case "":
		return "All"
	default:
		return string(c)
	}
}

// HealthStatus is the backend health probe result.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ChallengeTemplate is a practice challenge definition.
type ChallengeTemplate struct {
	ID                int           `json:"id"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	AssociatedSkillID *int          `json:"associated_skill_id"`
	ChallengeType     ChallengeType `json:"challenge_type"`
	Difficulty        Difficulty    `json:"difficulty"`
	IsActive          bool          `json:"is_active"`
	CreatedAt         string        `json:"created_at,omitempty"`
	UpdatedAt         string        `json:"updated_at,omitempty"`
}

// ChallengeCompletion is a user's submitted completion of a template.
type ChallengeCompletion struct {
	ID                  int              `json:"id"`
	UserID              int              `json:"user_id"`
	ChallengeTemplateID int              `json:"challenge_template_id"`
	ChallengeTitle      *string          `json:"challenge_title"`
	Status              CompletionStatus `json:"status"`
	CompletedAt         *string          `json:"completed_at"`
	UserResponse        *string          `json:"user_response"`
}

// MindContent is a resource in the content library.
type MindContent struct {
	ID              int         `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	URL             string      `json:"url"`
	ContentType     ContentType `json:"content_type"`
	CategoryID      int         `json:"category_id"`
	AuthorName      *string     `json:"author_name"`
	DurationMinutes *int        `json:"duration_minutes"`
}

// MindContentCategory groups mind content.
type MindContentCategory struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CompletionRequest is the payload for submitting a challenge completion.
type CompletionRequest struct {
	ChallengeTemplateID int    `json:"challenge_template_id"`
	UserResponse        string `json:"user_response"`
}

// MindContentInput is the payload for creating or updating mind content.
type MindContentInput struct {
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	URL             string      `json:"url"`
	ContentType     ContentType `json:"content_type"`
	CategoryID      int         `json:"category_id"`
	AuthorName      *string     `json:"author_name,omitempty"`
	DurationMinutes *int        `json:"duration_minutes,omitempty"`
}

// LoginRequest is the payload for password login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult carries the bearer token issued on login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	UserID      int    `json:"user_id"`
	Username    string `json:"username"`
}

// TemplateFilter narrows the challenge template listing. Zero values are
// not sent.
type TemplateFilter struct {
	Difficulty        Difficulty
	AssociatedSkillID int
}

// Query encodes the active filters as query parameters.
func (f TemplateFilter) Query() url.Values {
	q := url.Values{}
	if f.Difficulty != "" {
		q.Set("difficulty", string(f.Difficulty))
	}
	if f.AssociatedSkillID != 0 {
		q.Set("associated_skill_id", strconv.Itoa(f.AssociatedSkillID))
	}
	return q
}

// ContentFilter narrows the mind content listing. Zero values are not sent.
type ContentFilter struct {
	CategoryID  int
	ContentType ContentType
	Search      string
}

// Query encodes the active filters as query parameters.
func (f ContentFilter) Query() url.Values {
	q := url.Values{}
	if f.CategoryID != 0 {
		q.Set("category_id", strconv.Itoa(f.CategoryID))
	}
	if f.ContentType != "" {
		q.Set("content_type", string(f.ContentType))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}

// Deref returns *s or "" when s is nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
