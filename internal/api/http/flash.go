package http

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "page_analyzer"
	flashKey    = "flash"
)

const (
	flashSuccess = "success"
	flashWarning = "warning"
	flashDanger  = "danger"
)

// Flash is the one-shot message shown on the next rendered page. Level
// matches the alert style it is rendered with.
type Flash struct {
	Level string
	Text  string
}

func init() {
	gob.Register(Flash{})
}

// FlashStore holds at most one pending flash message per session. It is
// written before a redirect and consumed exactly once by the next render.
type FlashStore struct {
	store sessions.Store
}

func NewFlashStore(secret []byte) *FlashStore {
	return &FlashStore{
		store: sessions.NewCookieStore(secret),
	}
}

// Put replaces the session's pending flash message.
func (f *FlashStore) Put(w http.ResponseWriter, r *http.Request, flash Flash) {
	sess, _ := f.store.Get(r, sessionName)
	sess.Values[flashKey] = flash
	_ = sess.Save(r, w)
}

// Pop returns the pending flash message and clears it, or nil when none
// is set. A stale or undecodable session cookie counts as none.
func (f *FlashStore) Pop(w http.ResponseWriter, r *http.Request) *Flash {
	sess, _ := f.store.Get(r, sessionName)

	flash, ok := sess.Values[flashKey].(Flash)
	if !ok {
		return nil
	}

	delete(sess.Values, flashKey)
	_ = sess.Save(r, w)

	return &flash
}
