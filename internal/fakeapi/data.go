package fakeapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/leap-app/leap/internal/api"
)

var (
	errNotFound     = errors.New("not found")
	errBadLogin     = errors.New("invalid username or password")
	errUnknownToken = errors.New("unknown token")
)

type user struct {
	ID           int
	Username     string
	PasswordHash []byte
}

// data is the backend state. Every method is safe for concurrent use.
type data struct {
	mu          sync.RWMutex
	now         func() time.Time
	users       []user
	tokens      map[string]int
	templates   []api.ChallengeTemplate
	completions []api.ChallengeCompletion
	categories  []api.MindContentCategory
	content     []api.MindContent
	nextContent int
	nextDone    int
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// newData returns the seeded state. The demo account is demo/demo.
func newData(now func() time.Time) *data {
	hash, err := bcrypt.GenerateFromPassword([]byte("demo"), bcrypt.MinCost)
	if err != nil {
		panic("fakeapi: hash demo password: " + err.Error())
	}

	d := &data{
		now:    now,
		users:  []user{{ID: 1, Username: "demo", PasswordHash: hash}},
		tokens: make(map[string]int),
		templates: []api.ChallengeTemplate{
			{ID: 1, Title: "Morning Gratitude", Description: "List three things you are grateful for today.", AssociatedSkillID: intPtr(1), ChallengeType: api.TextResponse, Difficulty: api.Easy, IsActive: true},
			{ID: 2, Title: "Cold Shower", Description: "Finish your shower with <b>30 seconds</b> of cold water.", AssociatedSkillID: intPtr(2), ChallengeType: api.CheckboxCompletion, Difficulty: api.Medium, IsActive: true},
			{ID: 3, Title: "Sunrise Walk", Description: "Take a walk at sunrise and capture the view.", ChallengeType: api.PhotoUpload, Difficulty: api.Easy, IsActive: true},
			{ID: 4, Title: "Negative Visualization", Description: "Spend ten minutes imagining the loss of something you value, then write what you noticed.", AssociatedSkillID: intPtr(1), ChallengeType: api.TextResponse, Difficulty: api.Hard, IsActive: true},
			{ID: 5, Title: "Digital Sunset", Description: "No screens for the last hour before bed.", AssociatedSkillID: intPtr(2), ChallengeType: api.CheckboxCompletion, Difficulty: api.Hard, IsActive: true},
		},
		categories: []api.MindContentCategory{
			{ID: 1, Name: "Stoicism", Description: strPtr("Ancient practical philosophy")},
			{ID: 2, Name: "Mindfulness", Description: strPtr("Attention and presence")},
			{ID: 3, Name: "Productivity"},
		},
		content: []api.MindContent{
			{ID: 1, Title: "Meditations", Description: "<p>Private notes of a <em>Roman emperor</em>.</p>", URL: "https://dailystoic.com/meditations-marcus-aurelius/", ContentType: api.Book, CategoryID: 1, AuthorName: strPtr("Marcus Aurelius")},
			{ID: 2, Title: "The Obstacle Is the Way", Description: "Turning trials into triumph.", URL: "https://www.youtube.com/watch?v=example", ContentType: api.Video, CategoryID: 1, AuthorName: strPtr("Ryan Holiday"), DurationMinutes: intPtr(18)},
			{ID: 3, Title: "Ten Percent Happier", Description: "Conversations about meditation.", URL: "https://www.tenpercent.com/podcast", ContentType: api.Podcast, CategoryID: 2, DurationMinutes: intPtr(45)},
			{ID: 4, Title: "Deep Work Rules", Description: "Focused success in a distracted world.", URL: "https://calnewport.com/deep-work-rules/", ContentType: api.Article, CategoryID: 3, AuthorName: strPtr("Cal Newport"), DurationMinutes: intPtr(12)},
		},
		nextContent: 5,
		nextDone:    2,
	}

	done := now().Add(-24 * time.Hour).UTC().Format(time.RFC3339)
	d.completions = []api.ChallengeCompletion{{
		ID:                  1,
		UserID:              1,
		ChallengeTemplateID: 1,
		ChallengeTitle:      strPtr("Morning Gratitude"),
		Status:              api.StatusCompleted,
		CompletedAt:         &done,
		UserResponse:        strPtr("Family, health, coffee."),
	}}
	return d
}

func (d *data) login(username, password string) (api.LoginResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if u.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
			break
		}
		token := uuid.NewString()
		d.tokens[token] = u.ID
		return api.LoginResult{AccessToken: token, UserID: u.ID, Username: u.Username}, nil
	}
	return api.LoginResult{}, errBadLogin
}

func (d *data) userForToken(token string) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.tokens[token]
	if !ok {
		return 0, errUnknownToken
	}
	return id, nil
}

func (d *data) listTemplates(difficulty string, skillID int) []api.ChallengeTemplate {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := []api.ChallengeTemplate{}
	for _, t := range d.templates {
		if !t.IsActive {
			continue
		}
		if difficulty != "" && string(t.Difficulty) != difficulty {
			continue
		}
		if skillID != 0 && (t.AssociatedSkillID == nil || *t.AssociatedSkillID != skillID) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (d *data) template(id int) (api.ChallengeTemplate, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, t := range d.templates {
		if t.ID == id {
			return t, nil
		}
	}
	return api.ChallengeTemplate{}, errNotFound
}

func (d *data) complete(userID int, req api.CompletionRequest) (api.ChallengeCompletion, error) {
	t, err := d.template(req.ChallengeTemplateID)
	if err != nil {
		return api.ChallengeCompletion{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	status := api.StatusCompleted
	// Photo evidence is reviewed by a person.
	if t.ChallengeType == api.PhotoUpload {
		status = api.StatusPendingReview
	}
	at := d.now().UTC().Format(time.RFC3339)
	c := api.ChallengeCompletion{
		ID:                  d.nextDone,
		UserID:              userID,
		ChallengeTemplateID: t.ID,
		ChallengeTitle:      strPtr(t.Title),
		Status:              status,
		CompletedAt:         &at,
	}
	if req.UserResponse != "" {
		c.UserResponse = strPtr(req.UserResponse)
	}
	d.nextDone++
	d.completions = append(d.completions, c)
	return c, nil
}

// completionsFor returns userID's completions, newest first.
func (d *data) completionsFor(userID int) []api.ChallengeCompletion {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := []api.ChallengeCompletion{}
	for _, c := range d.completions {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (d *data) listCategories() []api.MindContentCategory {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]api.MindContentCategory{}, d.categories...)
}

func (d *data) hasCategory(id int) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, c := range d.categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (d *data) listContent(f api.ContentFilter) []api.MindContent {
	d.mu.RLock()
	defer d.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := []api.MindContent{}
	for _, c := range d.content {
		if f.CategoryID != 0 && c.CategoryID != f.CategoryID {
			continue
		}
		if f.ContentType != "" && c.ContentType != f.ContentType {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Title), search) &&
			!strings.Contains(strings.ToLower(c.Description), search) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (d *data) contentByID(id int) (api.MindContent, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, c := range d.content {
		if c.ID == id {
			return c, nil
		}
	}
	return api.MindContent{}, errNotFound
}

func (d *data) addContent(in api.MindContentInput) api.MindContent {
	d.mu.Lock()
	defer d.mu.Unlock()

	c := fromInput(d.nextContent, in)
	d.nextContent++
	d.content = append(d.content, c)
	return c
}

func (d *data) updateContent(id int, in api.MindContentInput) (api.MindContent, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, c := range d.content {
		if c.ID == id {
			d.content[i] = fromInput(id, in)
			return d.content[i], nil
		}
	}
	return api.MindContent{}, errNotFound
}

func fromInput(id int, in api.MindContentInput) api.MindContent {
	return api.MindContent{
		ID:              id,
		Title:           in.Title,
		Description:     in.Description,
		URL:             in.URL,
		ContentType:     in.ContentType,
		CategoryID:      in.CategoryID,
		AuthorName:      in.AuthorName,
		DurationMinutes: in.DurationMinutes,
	}
}
