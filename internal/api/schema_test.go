package api

import (
	"errors"
	"testing"
)

func TestValidateResponse_ValidTemplateList(t *testing.T) {
	raw := []byte(`[{"id":1,"title":"Mindful Minute","description":"Breathe.","associated_skill_id":null,
		"challenge_type":"checkbox_completion","difficulty":"easy","is_active":true}]`)
	if err := validateResponse(templateListSchema, raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_UnknownDifficulty(t *testing.T) {
	raw := []byte(`{"id":1,"title":"x","description":"y","challenge_type":"text_response","difficulty":"extreme"}`)
	err := validateResponse(templateSchema, raw)
	if err == nil {
		t.Fatal("expected error for unknown difficulty")
	}
	var invErr *InvalidResponseError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected InvalidResponseError, got: %T", err)
	}
}

func TestValidateResponse_MissingRequired(t *testing.T) {
	raw := []byte(`{"status":"ok"}`)
	if err := validateResponse(loginSchema, raw); err == nil {
		t.Fatal("expected error for missing access_token")
	}
}

func TestValidateResponse_InvalidJSON(t *testing.T) {
	err := validateResponse(healthSchema, []byte(`not json`))
	var invErr *InvalidResponseError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected InvalidResponseError, got: %v", err)
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, []byte(`anything`)); err != nil {
		t.Fatalf("expected nil, got: %v", err)
	}
}

func TestValidateResponse_NullableFields(t *testing.T) {
	raw := []byte(`[{"id":1,"title":"Daily Stoic","description":null,"url":"https://dailystoic.com",
		"content_type":"article","category_id":1,"author_name":null,"duration_minutes":null}]`)
	if err := validateResponse(contentListSchema, raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}
