package attempt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leap-app/leap/internal/api"
	"github.com/leap-app/leap/internal/platform"
	"github.com/leap-app/leap/internal/screen"
	"github.com/leap-app/leap/internal/screens/screentest"
)

const (
	textChallenge     = `{"id":1,"title":"Text Challenge","description":"Respond with text.","challenge_type":"text_response","difficulty":"easy","is_active":true,"associated_skill_id":null}`
	checkboxChallenge = `{"id":2,"title":"Checkbox Challenge","description":"Tick the box.","challenge_type":"checkbox_completion","difficulty":"medium","is_active":true,"associated_skill_id":null}`
	photoChallenge    = `{"id":3,"title":"Photo Challenge","description":"Upload a photo (simulated).","challenge_type":"photo_upload","difficulty":"hard","is_active":true,"associated_skill_id":null}`
	completion        = `{"id":1,"user_id":1,"challenge_template_id":1,"status":"completed","completed_at":"2024-05-01T10:00:00Z","user_response":"Test response"}`
)

func load(t *testing.T, nav *screentest.Nav, id int, responses ...api.MockResponse) (screen.Screen, *api.MockTransport) {
	t.Helper()
	svc, mt := screentest.Services(responses...)
	s := New(svc.Challenges, nav, platform.TeaAlerter{}, id)
	scr, _ := screentest.Run(t, s, s.Init())
	return scr, mt
}

func submittedBody(t *testing.T, mt *api.MockTransport) api.CompletionRequest {
	t.Helper()
	req, ok := mt.LastCall().Body.(api.CompletionRequest)
	require.True(t, ok, "expected CompletionRequest body, got %T", mt.LastCall().Body)
	return req
}

func TestAttempt_Loading(t *testing.T) {
	svc, _ := screentest.Services(screentest.JSON(textChallenge))
	s := New(svc.Challenges, &screentest.Nav{}, platform.TeaAlerter{}, 1)
	s.Init()
	assert.Contains(t, s.View(100, 30), "Loading challenge details...")
}

func TestAttempt_RendersTextType(t *testing.T) {
	scr, mt := load(t, &screentest.Nav{}, 1, screentest.JSON(textChallenge))
	view := scr.View(100, 30)
	assert.Contains(t, view, "Text Challenge")
	assert.Contains(t, view, "Enter your response")
	assert.Equal(t, "/api/practice_challenges/templates/1", mt.LastCall().Path)
}

func TestAttempt_RendersPhotoType(t *testing.T) {
	scr, _ := load(t, &screentest.Nav{}, 3, screentest.JSON(photoChallenge))
	view := scr.View(120, 30)
	assert.Contains(t, view, "Photo Challenge")
	assert.Contains(t, view, "This challenge involves a photo upload")
}

func TestAttempt_RendersCheckboxType(t *testing.T) {
	scr, _ := load(t, &screentest.Nav{}, 2, screentest.JSON(checkboxChallenge))
	view := scr.View(100, 30)
	assert.Contains(t, view, "Mark as completed:")
	assert.Contains(t, view, "Not Completed (Mark)")

	scr, _ = scr.Update(screentest.Key("space"))
	assert.Contains(t, scr.View(100, 30), "Completed (Unmark)")
}

func TestAttempt_SubmitText(t *testing.T) {
	nav := &screentest.Nav{}
	scr, mt := load(t, nav, 1, screentest.JSON(textChallenge), screentest.JSON(completion))

	scr = screentest.Type(scr, "My test answer")
	scr, cmd := scr.Update(screentest.Key("enter"))
	_, out := screentest.Run(t, scr, cmd)

	assert.Equal(t, api.CompletionRequest{ChallengeTemplateID: 1, UserResponse: "My test answer"}, submittedBody(t, mt))
	assert.Equal(t, "POST", mt.LastCall().Method)

	alert := out.LastAlert(t)
	assert.Equal(t, "Success", alert.Title)
	assert.Equal(t, "Challenge completion submitted!", alert.Message)
	assert.Equal(t, 1, nav.Backs)
	assert.Equal(t, 1, out.Pops)
}

func TestAttempt_TextRequired(t *testing.T) {
	nav := &screentest.Nav{}
	scr, mt := load(t, nav, 1, screentest.JSON(textChallenge))

	scr, cmd := scr.Update(screentest.Key("enter"))
	_, out := screentest.Run(t, scr, cmd)

	alert := out.LastAlert(t)
	assert.Equal(t, "Input Required", alert.Title)
	assert.Equal(t, "Please enter your response.", alert.Message)
	assert.Equal(t, 1, mt.CallCount(), "validation never reaches the network")
	assert.Zero(t, nav.Backs)
}

func TestAttempt_SubmitCheckbox(t *testing.T) {
	nav := &screentest.Nav{}
	scr, mt := load(t, nav, 2, screentest.JSON(checkboxChallenge), screentest.JSON(completion))

	scr, _ = scr.Update(screentest.Key("space"))
	scr, cmd := scr.Update(screentest.Key("enter"))
	_, out := screentest.Run(t, scr, cmd)

	assert.Equal(t, api.CompletionRequest{ChallengeTemplateID: 2, UserResponse: "Completed"}, submittedBody(t, mt))
	assert.Equal(t, "Success", out.LastAlert(t).Title)
	assert.Equal(t, 1, nav.Backs)
}

func TestAttempt_CheckboxUnmarked(t *testing.T) {
	scr, mt := load(t, &screentest.Nav{}, 2, screentest.JSON(checkboxChallenge))

	scr, cmd := scr.Update(screentest.Key("enter"))
	_, out := screentest.Run(t, scr, cmd)

	alert := out.LastAlert(t)
	assert.Equal(t, "Input Required", alert.Title)
	assert.Equal(t, "Please mark the challenge as completed.", alert.Message)
	assert.Equal(t, 1, mt.CallCount())
}

func TestAttempt_SubmissionError(t *testing.T) {
	nav := &screentest.Nav{}
	scr, _ := load(t, nav, 1, screentest.JSON(textChallenge),
		api.MockResponse{StatusCode: 400, Body: `{"message":"Submission Failed"}`})

	scr = screentest.Type(scr, "Some answer")
	scr, cmd := scr.Update(screentest.Key("enter"))
	scr, out := screentest.Run(t, scr, cmd)

	alert := out.LastAlert(t)
	assert.Equal(t, "Error", alert.Title)
	assert.Equal(t, "Submission Failed", alert.Message)
	assert.Zero(t, nav.Backs)
	assert.Contains(t, scr.View(100, 30), "Some answer", "form stays populated")
}

func TestAttempt_LoadErrorRetry(t *testing.T) {
	scr, mt := load(t, &screentest.Nav{}, 1, screentest.Status(404), screentest.JSON(textChallenge))
	assert.Contains(t, scr.View(100, 30), "Error: HTTP error! status: 404")

	scr, cmd := scr.Update(screentest.Key("r"))
	scr, _ = screentest.Run(t, scr, cmd)
	assert.Equal(t, 2, mt.CallCount())
	assert.Contains(t, scr.View(100, 30), "Text Challenge")
}

func TestAttempt_CompletionBodyEncodes(t *testing.T) {
	raw, err := json.Marshal(api.CompletionRequest{ChallengeTemplateID: 2, UserResponse: "Completed"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"challenge_template_id":2,"user_response":"Completed"}`, string(raw))
}
