package api

import "context"

// HealthChecker probes backend liveness.
type HealthChecker interface {
	Health(ctx context.Context) (*HealthStatus, error)
}

// ChallengeService reads practice challenges and submits completions.
type ChallengeService interface {
	GetChallengeTemplates(ctx context.Context, filter TemplateFilter) ([]ChallengeTemplate, error)
	GetChallengeTemplateByID(ctx context.Context, id int) (*ChallengeTemplate, error)
	SubmitChallengeCompletion(ctx context.Context, req CompletionRequest) (*ChallengeCompletion, error)
	GetMyChallengeCompletions(ctx context.Context) ([]ChallengeCompletion, error)
}

// MindContentService reads and edits the mind content library.
type MindContentService interface {
	GetMindContent(ctx context.Context, filter ContentFilter) ([]MindContent, error)
	GetMindContentCategories(ctx context.Context) ([]MindContentCategory, error)
	GetMindContentByID(ctx context.Context, id int) (*MindContent, error)
	AddMindContent(ctx context.Context, input MindContentInput) (*MindContent, error)
	UpdateMindContent(ctx context.Context, id int, input MindContentInput) (*MindContent, error)
}

// AuthService exchanges credentials for a bearer token.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

// Services bundles every backend collaborator a screen or command may need.
type Services struct {
	Health     HealthChecker
	Challenges ChallengeService
	Content    MindContentService
	Auth       AuthService
}
