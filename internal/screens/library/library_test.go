package library

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leap-app/leap/internal/api"
	"github.com/leap-app/leap/internal/platform"
	"github.com/leap-app/leap/internal/router"
	"github.com/leap-app/leap/internal/screen"
	"github.com/leap-app/leap/internal/screens/screentest"
)

const (
	categories = `[{"id":1,"name":"Stoicism","description":null},{"id":2,"name":"Focus","description":"Deep work"}]`
	content    = `[
  {"id":10,"title":"Meditations","description":"<p>Notes to <b>self</b>.</p>","url":"https://example.com/meditations","content_type":"book","category_id":1,"author_name":"Marcus Aurelius","duration_minutes":null},
  {"id":11,"title":"Deep Work Talk","description":"A talk.","url":"https://example.com/talk","content_type":"video","category_id":2,"author_name":null,"duration_minutes":45}
]`
)

type fixture struct {
	scr    screen.Screen
	lib    *LibraryScreen
	mt     *api.MockTransport
	nav    *screentest.Nav
	opener *screentest.Opener
}

func setup(t *testing.T, responses ...api.MockResponse) fixture {
	t.Helper()
	svc, mt := screentest.Services(responses...)
	nav := &screentest.Nav{}
	opener := &screentest.Opener{Allow: true}
	lib := New(svc.Content, nav, platform.TeaAlerter{}, opener)
	scr, _ := screentest.Run(t, lib, lib.Init())
	return fixture{scr: scr, lib: lib, mt: mt, nav: nav, opener: opener}
}

func TestLibrary_LoadingState(t *testing.T) {
	svc, _ := screentest.Services()
	lib := New(svc.Content, &screentest.Nav{}, platform.TeaAlerter{}, &screentest.Opener{})
	lib.Init()
	assert.Contains(t, lib.View(100, 30), "Loading Content Library...")
}

func TestLibrary_LoadsBothInParallel(t *testing.T) {
	f := setup(t, screentest.JSON(categories), screentest.JSON(content))

	assert.Equal(t, 2, f.mt.CallCount())
	view := f.scr.View(120, 40)
	assert.Contains(t, view, "Meditations")
	assert.Contains(t, view, "Notes to self.")
	assert.NotContains(t, view, "<b>")
	assert.Contains(t, view, "Marcus Aurelius")
	assert.Contains(t, view, "45 min")
}

func TestLibrary_Error(t *testing.T) {
	f := setup(t, screentest.JSON(categories), screentest.Status(500))
	assert.Contains(t, f.scr.View(100, 30), "Error: HTTP error! status: 500")
}

func TestLibrary_Empty(t *testing.T) {
	f := setup(t, screentest.JSON(categories), screentest.JSON(`[]`))
	assert.Contains(t, f.scr.View(100, 30), "No content found for the selected criteria.")
}

func TestLibrary_ApplyMergesFilters(t *testing.T) {
	f := setup(t, screentest.JSON(categories), screentest.JSON(content))
	f.mt.AddResponse(screentest.JSON(`[]`))

	scr, _ := f.scr.Update(screentest.Key("/"))
	assert.True(t, f.lib.CapturingInput())
	scr = screentest.Type(scr, "stoic")
	scr, _ = scr.Update(screentest.Key("esc"))
	assert.False(t, f.lib.CapturingInput())

	scr, _ = scr.Update(screentest.Key("right")) // Stoicism
	scr, _ = scr.Update(screentest.Key("t"))     // first content type
	assert.Equal(t, 2, f.mt.CallCount(), "changing controls does not fetch")

	scr, cmd := scr.Update(screentest.Key("a"))
	screentest.Run(t, scr, cmd)

	require.Equal(t, 3, f.mt.CallCount())
	q := f.mt.LastCall().Query
	assert.Equal(t, "stoic", q.Get("search"))
	assert.Equal(t, "1", q.Get("category_id"))
	assert.Equal(t, string(api.ContentTypes[0]), q.Get("content_type"))
}

func TestLibrary_SearchEnterApplies(t *testing.T) {
	f := setup(t, screentest.JSON(categories), screentest.JSON(content))
	f.mt.AddResponse(screentest.JSON(content))

	scr, _ := f.scr.Update(screentest.Key("/"))
	scr = screentest.Type(scr, "talk")
	scr, cmd := scr.Update(screentest.Key("enter"))
	screentest.Run(t, scr, cmd)

	assert.Equal(t, "talk", f.mt.LastCall().Query.Get("search"))
	assert.Empty(t, f.mt.LastCall().Query.Get("category_id"))
}

func TestLibrary_OpenURL(t *testing.T) {
	f := setup(t, screentest.JSON(categories), screentest.JSON(content))

	_, cmd := f.scr.Update(screentest.Key("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"https://example.com/meditations"}, f.opener.Opened)
}

func TestLibrary_OpenURLUnsupported(t *testing.T) {
	f := setup(t, screentest.JSON(categories), screentest.JSON(content))
	f.opener.Allow = false

	scr, cmd := f.scr.Update(screentest.Key("enter"))
	_, out := screentest.Run(t, scr, cmd)

	alert := out.LastAlert(t)
	assert.Equal(t, "Error", alert.Title)
	assert.Equal(t, "Don't know how to open this URL: https://example.com/meditations", alert.Message)
	assert.Empty(t, f.opener.Opened)
}

func TestLibrary_NavigateToForm(t *testing.T) {
	f := setup(t, screentest.JSON(categories), screentest.JSON(content))

	scr, _ := f.scr.Update(screentest.Key("n"))
	scr, _ = scr.Update(screentest.Key("down"))
	scr.Update(screentest.Key("e"))

	require.Len(t, f.nav.Routes, 2)
	assert.Equal(t, router.MindContentForm, f.nav.Routes[0])
	assert.Equal(t, router.Params{Mode: router.ModeAdd}, f.nav.Params[0])
	assert.Equal(t, router.Params{Mode: router.ModeEdit, ContentID: 11}, f.nav.Params[1])
}

func TestLibrary_ResumeRefreshes(t *testing.T) {
	f := setup(t, screentest.JSON(categories), screentest.JSON(content))
	f.mt.AddResponse(screentest.JSON(`[]`))

	screentest.Run(t, f.lib, f.lib.Resume())
	assert.Equal(t, 3, f.mt.CallCount())
	assert.True(t, f.lib.content.Empty())
}

// cover stands in for a screen pushed over the library.
type cover struct{}

func (cover) Init() tea.Cmd                             { return nil }
func (c cover) Update(tea.Msg) (screen.Screen, tea.Cmd) { return c, nil }
func (cover) View(int, int) string                      { return "cover" }
func (cover) Title() string                             { return "Cover" }

func TestLibrary_ResumeAfterLeavingMidLoad(t *testing.T) {
	svc, mt := screentest.Services(
		screentest.JSON(categories), screentest.JSON(content),
		screentest.JSON(categories), screentest.JSON(content),
	)
	lib := New(svc.Content, &screentest.Nav{}, platform.TeaAlerter{}, &screentest.Opener{})
	r := router.New(lib)

	initial := lib.Init()
	r.Push(cover{})
	for _, msg := range screentest.Collect(initial) {
		r.Update(msg)
	}
	require.True(t, lib.loading(), "results went to the covering screen")

	scr, _ := screentest.Run(t, lib, r.Pop())
	assert.Equal(t, 4, mt.CallCount())
	assert.False(t, lib.loading())
	view := scr.View(120, 40)
	assert.Contains(t, view, "Meditations")
	assert.Contains(t, view, "Stoicism")
}

func TestLibrary_ResumeAfterLeavingMidRefresh(t *testing.T) {
	f := setup(t, screentest.JSON(categories), screentest.JSON(content))
	f.mt.AddResponse(screentest.JSON(content))
	f.mt.AddResponse(screentest.JSON(`[]`))

	_, lost := f.scr.Update(screentest.Key("r"))
	require.NotNil(t, lost)
	screentest.Collect(lost)
	require.True(t, f.lib.content.Refreshing())

	screentest.Run(t, f.lib, f.lib.Resume())
	assert.Equal(t, 4, f.mt.CallCount())
	assert.False(t, f.lib.content.Refreshing())
	assert.True(t, f.lib.content.Empty())
}
