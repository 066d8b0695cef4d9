// Package forms builds write payloads from raw user input. Both the
// terminal screens and the CLI go through it, so validation messages are
// identical on every surface.
package forms

import (
	"strconv"
	"strings"

	"github.com/leap-app/leap/internal/api"
	"github.com/leap-app/leap/internal/lifecycle"
)

// Alert titles and messages for local validation failures.
const (
	TitleInputRequired  = "Input Required"
	TitleValidation     = "Validation Error"
	CheckboxResponse    = "Completed"
	MsgEnterResponse    = "Please enter your response."
	MsgMarkCompleted    = "Please mark the challenge as completed."
	MsgDurationNotWhole = "Duration must be a whole number of minutes."
)

// BuildCompletion validates the attempt input for t and returns the
// completion payload. marked is only consulted for checkbox challenges;
// response is the typed answer for text challenges and an optional photo
// link for photo challenges.
func BuildCompletion(t api.ChallengeTemplate, response string, marked bool) (api.CompletionRequest, error) {
	req := api.CompletionRequest{ChallengeTemplateID: t.ID}

	switch t.ChallengeType {
	case api.CheckboxCompletion:
		if !marked {
			return req, &lifecycle.ValidationError{
				Title:   TitleInputRequired,
				Missing: []string{"Completion"},
				Message: MsgMarkCompleted,
			}
		}
		req.UserResponse = CheckboxResponse
	case api.PhotoUpload:
		req.UserResponse = strings.TrimSpace(response)
	default:
		response = strings.TrimSpace(response)
		if response == "" {
			return req, &lifecycle.ValidationError{
				Title:   TitleInputRequired,
				Missing: []string{"Response"},
				Message: MsgEnterResponse,
			}
		}
		req.UserResponse = response
	}
	return req, nil
}

// ContentFields is the raw, unvalidated input of the mind content form.
type ContentFields struct {
	Title       string
	Description string
	URL         string
	Author      string
	Duration    string
	ContentType api.ContentType
	CategoryID  int
}

// FromContent pre-populates form fields from an existing item.
func FromContent(c api.MindContent) ContentFields {
	f := ContentFields{
		Title:       c.Title,
		Description: c.Description,
		URL:         c.URL,
		Author:      api.Deref(c.AuthorName),
		ContentType: c.ContentType,
		CategoryID:  c.CategoryID,
	}
	if c.DurationMinutes != nil {
		f.Duration = strconv.Itoa(*c.DurationMinutes)
	}
	return f
}

// BuildContentInput validates f and returns the create/update payload.
// Title, description and URL are required; author and duration are
// optional and omitted when blank.
func BuildContentInput(f ContentFields) (api.MindContentInput, error) {
	if err := lifecycle.Required(TitleValidation,
		lifecycle.Field{Name: "Title", Value: f.Title},
		lifecycle.Field{Name: "Description", Value: f.Description},
		lifecycle.Field{Name: "URL", Value: f.URL},
	); err != nil {
		return api.MindContentInput{}, err
	}

	in := api.MindContentInput{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		URL:         strings.TrimSpace(f.URL),
		ContentType: f.ContentType,
		CategoryID:  f.CategoryID,
	}
	if in.ContentType == "" {
		in.ContentType = api.Article
	}

	if author := strings.TrimSpace(f.Author); author != "" {
		in.AuthorName = &author
	}

	if d := strings.TrimSpace(f.Duration); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 0 {
			return api.MindContentInput{}, &lifecycle.ValidationError{
				Title:   TitleValidation,
				Missing: []string{"Duration"},
				Message: MsgDurationNotWhole,
			}
		}
		in.DurationMinutes = &n
	}

	return in, nil
}
