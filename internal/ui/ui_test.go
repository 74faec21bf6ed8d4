package ui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/ku-toilet-map/web/internal/public/domain"
	"github.com/sngm3741/ku-toilet-map/web/internal/session"
	"github.com/sngm3741/ku-toilet-map/web/internal/ui"
)

var (
	guest   = session.Capabilities{}
	student = session.Capabilities{CanReview: true, CanSeeHistory: true}
	admin   = session.Capabilities{CanReview: true, CanSeeHistory: true, CanAdminister: true}
)

func apply(t *testing.T, view ui.View, caps session.Capabilities, events ...ui.Event) ui.View {
	t.Helper()
	for _, event := range events {
		var err error
		view, err = ui.Transition(view, event, caps)
		require.NoError(t, err, event.Type)
	}
	return view
}

func TestTransition_OnlyOneOverlayAtATime(t *testing.T) {
	view := apply(t, ui.View{}, guest, ui.Event{Type: ui.EventSelectMarker, RestroomID: "1"})
	assert.Equal(t, ui.View{Overlay: ui.OverlayDetail, Selected: "1"}, view)

	view = apply(t, view, guest, ui.Event{Type: ui.EventToggleFilter})
	assert.Equal(t, ui.View{Overlay: ui.OverlayFilter}, view)

	view = apply(t, view, guest, ui.Event{Type: ui.EventToggleFilter})
	assert.Equal(t, ui.View{Overlay: ui.OverlayNone}, view)
}

func TestTransition_ProfileButtonWhileSignedOut(t *testing.T) {
	view := apply(t, ui.View{}, guest, ui.Event{Type: ui.EventProfileClicked})
	assert.Equal(t, ui.OverlayLogin, view.Overlay)

	view = apply(t, view, guest, ui.Event{Type: ui.EventOpenSignUp})
	assert.Equal(t, ui.OverlaySignUp, view.Overlay)

	view = apply(t, view, guest, ui.Event{Type: ui.EventProfileClicked})
	assert.Equal(t, ui.OverlayNone, view.Overlay)
}

func TestTransition_DetailCoexistsWithProfile(t *testing.T) {
	view := apply(t, ui.View{}, student,
		ui.Event{Type: ui.EventSelectMarker, RestroomID: "2"},
		ui.Event{Type: ui.EventProfileClicked},
	)
	assert.Equal(t, ui.View{Overlay: ui.OverlayProfile, Selected: "2"}, view)

	view = apply(t, view, student, ui.Event{Type: ui.EventSelectMarker, RestroomID: "3"})
	assert.Equal(t, ui.View{Overlay: ui.OverlayProfile, Selected: "3"}, view)

	view = apply(t, view, student, ui.Event{Type: ui.EventProfileClicked})
	assert.Equal(t, ui.View{Overlay: ui.OverlayDetail, Selected: "3"}, view)

	view = apply(t, view, student, ui.Event{Type: ui.EventCloseDetail})
	assert.Equal(t, ui.View{Overlay: ui.OverlayNone}, view)
}

func TestTransition_LogoutClearsProfileAndAdmin(t *testing.T) {
	view := apply(t, ui.View{}, admin, ui.Event{Type: ui.EventOpenAdmin})
	assert.Equal(t, ui.OverlayAdmin, view.Overlay)

	view = apply(t, view, guest, ui.Event{Type: ui.EventLogout})
	assert.Equal(t, ui.OverlayNone, view.Overlay)

	view = apply(t, ui.View{Overlay: ui.OverlayProfile, Selected: "1"}, guest, ui.Event{Type: ui.EventLogout})
	assert.Equal(t, ui.View{Overlay: ui.OverlayDetail, Selected: "1"}, view)
}

func TestTransition_AdminGate(t *testing.T) {
	start := ui.View{Overlay: ui.OverlayFilter}
	view, err := ui.Transition(start, ui.Event{Type: ui.EventOpenAdmin}, student)
	assert.ErrorIs(t, err, ui.ErrNotPermitted)
	assert.Equal(t, start, view)
}

func TestTransition_LoginPrompt(t *testing.T) {
	view := apply(t, ui.View{}, guest,
		ui.Event{Type: ui.EventSelectMarker, RestroomID: "1"},
		ui.Event{Type: ui.EventRatePressed},
	)
	assert.True(t, view.LoginPrompt)

	dismissed := apply(t, view, guest, ui.Event{Type: ui.EventDismissPrompt})
	assert.Equal(t, ui.View{Overlay: ui.OverlayDetail, Selected: "1"}, dismissed)

	accepted := apply(t, view, guest, ui.Event{Type: ui.EventAcceptLoginPrompt})
	assert.Equal(t, ui.View{Overlay: ui.OverlayLogin}, accepted)

	signedIn := apply(t, ui.View{Overlay: ui.OverlayDetail, Selected: "1"}, student, ui.Event{Type: ui.EventRatePressed})
	assert.False(t, signedIn.LoginPrompt)

	afterLogin := apply(t, accepted, student, ui.Event{Type: ui.EventLoginSucceeded})
	assert.Equal(t, ui.OverlayProfile, afterLogin.Overlay)
}

func TestTransition_Errors(t *testing.T) {
	_, err := ui.Transition(ui.View{}, ui.Event{Type: "explode"}, guest)
	assert.ErrorIs(t, err, ui.ErrUnknownEvent)
	_, err = ui.Transition(ui.View{}, ui.Event{Type: ui.EventSelectMarker}, guest)
	assert.ErrorIs(t, err, ui.ErrMissingMarker)
	_, err = ui.Transition(ui.View{}, ui.Event{Type: ui.EventLoginSucceeded}, guest)
	assert.ErrorIs(t, err, ui.ErrNotPermitted)

	_, err = ui.ParseOverlay("modal")
	assert.Error(t, err)
	overlay, err := ui.ParseOverlay("")
	require.NoError(t, err)
	assert.Equal(t, ui.OverlayNone, overlay)
}

func TestCarousel(t *testing.T) {
	proxy := func(u string) string { return "/api/photos?src=" + u }

	single := ui.NewCarousel([]string{"a"}, proxy, "/placeholder.svg")
	assert.Equal(t, ui.CarouselSingle, single.Mode)
	assert.Equal(t, "/api/photos?src=a", single.Slides[0].Src)
	assert.Equal(t, "/placeholder.svg", single.Slides[0].Fallback)
	assert.Equal(t, 0, single.Next(0))

	cyclic := ui.NewCarousel([]string{"a", "", "b", "c"}, nil, "")
	assert.Equal(t, ui.CarouselCyclic, cyclic.Mode)
	require.Len(t, cyclic.Slides, 3)
	assert.Equal(t, 1, cyclic.Next(0))
	assert.Equal(t, 0, cyclic.Next(2))
	assert.Equal(t, 2, cyclic.Prev(0))
	assert.Equal(t, 1, cyclic.Prev(-1))

	assert.Equal(t, ui.CarouselEmpty, ui.NewCarousel(nil, nil, "").Mode)
}

func TestBuildDetail(t *testing.T) {
	record := domain.Restroom{
		ID:        "1",
		Name:      "Library",
		Amenities: domain.Amenities{Women: true, Men: true},
		Hours:     domain.NewOpeningHours(map[domain.Weekday]string{domain.Monday: "8:00 - 18:30"}),
		PhotoURLs: []string{"https://example.com/a.jpg"},
	}

	detail := ui.BuildDetail(record, []domain.Review{{ID: "r", Author: "A", Rating: 5}}, ui.DetailOptions{Capabilities: guest})

	require.Len(t, detail.Checklist, 6)
	assert.True(t, detail.Checklist[0].Available)
	assert.False(t, detail.Checklist[2].Available)
	require.Len(t, detail.Hours, 7)
	assert.Equal(t, "8:00 - 18:30", detail.Hours[0].Hours)
	assert.Equal(t, domain.NotSpecified, detail.Hours[6].Hours)
	assert.Equal(t, ui.CarouselSingle, detail.Carousel.Mode)
	assert.True(t, detail.Affordance.RequiresLogin)
	assert.False(t, detail.Affordance.CanSubmit)
	require.Len(t, detail.Reviews, 1)

	busy := ui.BuildDetail(record, nil, ui.DetailOptions{Capabilities: student, Submitting: true})
	assert.False(t, busy.Affordance.CanSubmit)
	assert.Equal(t, "Submitting...", busy.Affordance.SubmitLabel)
}

func TestMarkersAndViewport(t *testing.T) {
	markers := ui.BuildMarkers([]domain.Restroom{{ID: "1", Name: "Library"}, {ID: "2", Name: "Canteen"}})
	require.Len(t, markers, 2)
	assert.Equal(t, "2", markers[1].ID)

	viewport := ui.DefaultViewport()
	assert.Equal(t, 13, viewport.Zoom)
	assert.Equal(t, 18, viewport.RecenterZoom)
	assert.InDelta(t, 13.84599, viewport.Center.Lat, 1e-9)
}
