package ui

import (
	"spellcast/internal/app"
	"spellcast/internal/session"
	"spellcast/internal/spell"
)

// Bubble Tea messages
type activatedMsg struct {
	spells    []spell.Info
	recent    []string
	selection string
	hadSel    bool
}

type appliedMsg struct {
	result app.Result
}

type sessionEventMsg struct {
	ev session.Event
}

type errMsg struct{ err error }

// generic notifications
type noticeMsg string
