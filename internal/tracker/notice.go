// Package tracker holds the interactive state of a tracking session: the debounced
// catalog search, the entry being composed, and the selected day's log.
//
// Every component is safe for concurrent use. Change callbacks run outside the
// component's lock and may be delivered out of order across goroutines, so each
// emitted state carries a Version; consumers keep the highest one they have seen.
package tracker

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient, dismissible message for the user.
type Notice struct {
	Level NoticeLevel
	Text  string
}

type NoticeFunc func(Notice)

func (f NoticeFunc) emit(level NoticeLevel, text string) {
	if f != nil {
		f(Notice{Level: level, Text: text})
	}
}
