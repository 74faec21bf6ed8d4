package ui

import (
	"errors"
	"fmt"

	"github.com/sngm3741/ku-toilet-map/web/internal/session"
)

// Overlay is the single panel shown above the map.
type Overlay string

const (
	OverlayNone    Overlay = "none"
	OverlayFilter  Overlay = "filter"
	OverlayLogin   Overlay = "login"
	OverlaySignUp  Overlay = "sign_up"
	OverlayProfile Overlay = "profile"
	OverlayDetail  Overlay = "detail"
	OverlayAdmin   Overlay = "admin"
)

func ParseOverlay(value string) (Overlay, error) {
	switch o := Overlay(value); o {
	case OverlayNone, OverlayFilter, OverlayLogin, OverlaySignUp, OverlayProfile, OverlayDetail, OverlayAdmin:
		return o, nil
	case "":
		return OverlayNone, nil
	}
	return "", fmt.Errorf("unknown overlay %q", value)
}

// EventType names a user action that moves the overlay state.
type EventType string

const (
	EventToggleFilter      EventType = "toggle_filter"
	EventProfileClicked    EventType = "profile_clicked"
	EventOpenLogin         EventType = "open_login"
	EventOpenSignUp        EventType = "open_sign_up"
	EventSelectMarker      EventType = "select_marker"
	EventCloseDetail       EventType = "close_detail"
	EventClose             EventType = "close"
	EventLoginSucceeded    EventType = "login_succeeded"
	EventLogout            EventType = "logout"
	EventOpenAdmin         EventType = "open_admin"
	EventRatePressed       EventType = "rate_pressed"
	EventAcceptLoginPrompt EventType = "accept_login_prompt"
	EventDismissPrompt     EventType = "dismiss_prompt"
)

type Event struct {
	Type EventType `json:"type"`
	// RestroomID is set for select_marker.
	RestroomID string `json:"restroomId,omitempty"`
}

// View is the whole overlay state. The detail sheet may stay selected underneath
// the profile view; with any other overlay nothing is selected.
type View struct {
	Overlay  Overlay `json:"overlay"`
	Selected string  `json:"selected,omitempty"`
	// LoginPrompt is the blocking "please log in" dialog raised by rating while signed out.
	LoginPrompt bool `json:"loginPrompt"`
}

var (
	ErrUnknownEvent  = errors.New("unknown event")
	ErrNotPermitted  = errors.New("event not permitted for this session")
	ErrMissingMarker = errors.New("select_marker requires a restroom id")
)

// Transition applies one event. On error the input view is returned unchanged.
func Transition(view View, event Event, caps session.Capabilities) (View, error) {
	next := normalize(view)
	signedIn := caps.CanReview

	switch event.Type {
	case EventToggleFilter:
		if next.Overlay == OverlayFilter {
			next.Overlay = OverlayNone
		} else {
			next = View{Overlay: OverlayFilter}
		}
	case EventProfileClicked:
		switch {
		case signedIn && next.Overlay == OverlayProfile:
			next.Overlay = OverlayNone
		case signedIn:
			next.Overlay = OverlayProfile
			next.LoginPrompt = false
		case next.Overlay == OverlayLogin || next.Overlay == OverlaySignUp:
			next.Overlay = OverlayNone
		default:
			next = View{Overlay: OverlayLogin}
		}
	case EventOpenLogin:
		next = View{Overlay: OverlayLogin}
	case EventOpenSignUp:
		next = View{Overlay: OverlaySignUp}
	case EventSelectMarker:
		if event.RestroomID == "" {
			return view, ErrMissingMarker
		}
		next.Selected = event.RestroomID
		next.LoginPrompt = false
		if next.Overlay != OverlayProfile {
			next.Overlay = OverlayDetail
		}
	case EventCloseDetail:
		next.Selected = ""
		next.LoginPrompt = false
		if next.Overlay == OverlayDetail {
			next.Overlay = OverlayNone
		}
	case EventClose:
		if next.Overlay == OverlayDetail {
			next.Selected = ""
		}
		next.Overlay = OverlayNone
		next.LoginPrompt = false
	case EventLoginSucceeded:
		if !signedIn {
			return view, ErrNotPermitted
		}
		next.Overlay = OverlayProfile
		next.LoginPrompt = false
	case EventLogout:
		if next.Overlay == OverlayProfile || next.Overlay == OverlayAdmin {
			next.Overlay = OverlayNone
		}
		next.LoginPrompt = false
	case EventOpenAdmin:
		if !caps.CanAdminister {
			return view, ErrNotPermitted
		}
		next = View{Overlay: OverlayAdmin}
	case EventRatePressed:
		if next.Selected != "" && !signedIn {
			next.LoginPrompt = true
		}
	case EventAcceptLoginPrompt:
		next = View{Overlay: OverlayLogin}
	case EventDismissPrompt:
		next.LoginPrompt = false
	default:
		return view, fmt.Errorf("%w: %q", ErrUnknownEvent, event.Type)
	}
	return normalize(next), nil
}

// normalize restores the view invariants: a detail overlay needs a selection and a
// selection is only kept under the detail or profile overlay.
func normalize(view View) View {
	if view.Overlay == "" {
		view.Overlay = OverlayNone
	}
	switch view.Overlay {
	case OverlayDetail:
		if view.Selected == "" {
			view.Overlay = OverlayNone
		}
	case OverlayProfile:
	case OverlayNone:
		if view.Selected != "" {
			view.Overlay = OverlayDetail
		}
	default:
		view.Selected = ""
	}
	if view.Selected == "" {
		view.LoginPrompt = false
	}
	return view
}
