package contentform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leap-app/leap/internal/api"
	"github.com/leap-app/leap/internal/platform"
	"github.com/leap-app/leap/internal/router"
	"github.com/leap-app/leap/internal/screen"
	"github.com/leap-app/leap/internal/screens/screentest"
)

const (
	categories = `[{"id":1,"name":"Category 1","description":null},{"id":2,"name":"Category 2","description":null}]`
	existing   = `{"id":123,"title":"Existing Title","description":"Existing Desc","url":"http://example.com/existing","content_type":"video","category_id":2,"author_name":"Old Author","duration_minutes":30}`
)

func open(t *testing.T, nav *screentest.Nav, mode string, id int, responses ...api.MockResponse) (screen.Screen, *FormScreen, *api.MockTransport) {
	t.Helper()
	svc, mt := screentest.Services(responses...)
	form := New(svc.Content, nav, platform.TeaAlerter{}, mode, id)
	scr, _ := screentest.Run(t, form, form.Init())
	return scr, form, mt
}

// fill types into the focused field and moves to the next one.
func fill(scr screen.Screen, text string) screen.Screen {
	scr = screentest.Type(scr, text)
	scr, _ = scr.Update(screentest.Key("tab"))
	return scr
}

func TestForm_AddModeLoadsCategories(t *testing.T) {
	scr, form, mt := open(t, &screentest.Nav{}, router.ModeAdd, 0, screentest.JSON(categories))

	assert.Equal(t, "Suggest New Content", form.Title())
	view := scr.View(100, 60)
	assert.Contains(t, view, "Enter title")
	assert.Contains(t, view, "Category 1")
	assert.Contains(t, view, "Add Content")
	assert.Equal(t, 1, mt.CallCount())
	assert.Equal(t, "/api/mind_content/categories", mt.LastCall().Path)
}

func TestForm_EditModePopulates(t *testing.T) {
	_, form, _ := open(t, &screentest.Nav{}, router.ModeEdit, 123,
		screentest.JSON(categories), screentest.JSON(existing))

	assert.Equal(t, "Edit Content", form.Title())
	f := form.fields()
	assert.Equal(t, "Existing Title", f.Title)
	assert.Equal(t, "Existing Desc", f.Description)
	assert.Equal(t, "http://example.com/existing", f.URL)
	assert.Equal(t, "Old Author", f.Author)
	assert.Equal(t, "30", f.Duration)
	assert.Equal(t, api.Video, f.ContentType)
	assert.Equal(t, 2, f.CategoryID)
}

func TestForm_ValidatesRequiredFields(t *testing.T) {
	scr, _, mt := open(t, &screentest.Nav{}, router.ModeAdd, 0, screentest.JSON(categories))

	scr, cmd := scr.Update(screentest.Key("ctrl+s"))
	_, out := screentest.Run(t, scr, cmd)

	alert := out.LastAlert(t)
	assert.Equal(t, "Validation Error", alert.Title)
	assert.Equal(t, "Title, Description, and URL are required.", alert.Message)
	assert.Equal(t, 1, mt.CallCount(), "validation never reaches the network")
}

func TestForm_DurationAcceptsDigitsOnly(t *testing.T) {
	scr, form, _ := open(t, &screentest.Nav{}, router.ModeAdd, 0, screentest.JSON(categories))
	scr = fill(scr, "t")
	scr = fill(scr, "d")
	scr = fill(scr, "https://x.io")
	scr = fill(scr, "")
	fill(scr, "1.5m")

	assert.Equal(t, "15", form.fields().Duration)
	assert.Equal(t, "t", form.fields().Title, "other fields take any text")
}

func TestForm_AddSubmits(t *testing.T) {
	nav := &screentest.Nav{}
	scr, _, mt := open(t, nav, router.ModeAdd, 0, screentest.JSON(categories))
	mt.AddResponse(screentest.JSON(existing))

	scr = fill(scr, "New Test Content")
	scr = fill(scr, "A great piece of content.")
	scr = fill(scr, "http://new.example.com")

	scr, cmd := scr.Update(screentest.Key("ctrl+s"))
	_, out := screentest.Run(t, scr, cmd)

	call := mt.LastCall()
	assert.Equal(t, "POST", call.Method)
	assert.Equal(t, "/api/mind_content", call.Path)
	body, ok := call.Body.(api.MindContentInput)
	require.True(t, ok)
	assert.Equal(t, "New Test Content", body.Title)
	assert.Equal(t, "A great piece of content.", body.Description)
	assert.Equal(t, "http://new.example.com", body.URL)
	assert.Equal(t, 1, body.CategoryID, "first category is the default")
	assert.Nil(t, body.DurationMinutes)

	alert := out.LastAlert(t)
	assert.Equal(t, "Success", alert.Title)
	assert.Equal(t, "Content added successfully!", alert.Message)
	assert.Equal(t, 1, nav.Backs)
}

func TestForm_EditSubmits(t *testing.T) {
	nav := &screentest.Nav{}
	scr, _, mt := open(t, nav, router.ModeEdit, 123, screentest.JSON(categories), screentest.JSON(existing))
	mt.AddResponse(screentest.JSON(existing))

	for range len("Existing Title") {
		scr, _ = scr.Update(screentest.Key("backspace"))
	}
	scr = screentest.Type(scr, "Updated Super Title")

	scr, cmd := scr.Update(screentest.Key("ctrl+s"))
	_, out := screentest.Run(t, scr, cmd)

	call := mt.LastCall()
	assert.Equal(t, "PUT", call.Method)
	assert.Equal(t, "/api/mind_content/123", call.Path)
	body := call.Body.(api.MindContentInput)
	assert.Equal(t, "Updated Super Title", body.Title)
	assert.Equal(t, 2, body.CategoryID)
	require.NotNil(t, body.DurationMinutes)
	assert.Equal(t, 30, *body.DurationMinutes)

	assert.Equal(t, "Content updated successfully!", out.LastAlert(t).Message)
	assert.Equal(t, 1, nav.Backs)
}

func TestForm_SubmitErrorKeepsForm(t *testing.T) {
	nav := &screentest.Nav{}
	scr, form, mt := open(t, nav, router.ModeAdd, 0, screentest.JSON(categories))
	mt.AddResponse(api.MockResponse{StatusCode: 500, Body: `{"message":"API Server Error"}`})

	scr = fill(scr, "T")
	scr = fill(scr, "D")
	scr = fill(scr, "https://u.io")
	scr, cmd := scr.Update(screentest.Key("ctrl+s"))
	_, out := screentest.Run(t, scr, cmd)

	alert := out.LastAlert(t)
	assert.Equal(t, "Error", alert.Title)
	assert.Equal(t, "API Server Error", alert.Message)
	assert.Zero(t, nav.Backs)
	assert.Equal(t, "T", form.fields().Title)
}

func TestForm_PickersCycle(t *testing.T) {
	scr, form, _ := open(t, &screentest.Nav{}, router.ModeAdd, 0, screentest.JSON(categories))

	for range fieldCategory {
		scr, _ = scr.Update(screentest.Key("tab"))
	}
	scr, _ = scr.Update(screentest.Key("right"))
	assert.Equal(t, 2, form.fields().CategoryID)

	scr, _ = scr.Update(screentest.Key("tab"))
	scr.Update(screentest.Key("right"))
	assert.Equal(t, api.ContentTypes[1], form.fields().ContentType)
}

func TestForm_CategoryLoadErrorRetry(t *testing.T) {
	scr, _, mt := open(t, &screentest.Nav{}, router.ModeAdd, 0, screentest.Status(503))
	assert.Contains(t, scr.View(100, 40), "Error: HTTP error! status: 503")

	mt.AddResponse(screentest.JSON(categories))
	scr, cmd := scr.Update(screentest.Key("r"))
	scr, _ = screentest.Run(t, scr, cmd)
	assert.Contains(t, scr.View(100, 60), "Category 1")
}
