// Package action builds the fire-and-forget requests a widget tap sends to
// the notes app. Requests only identify the mutation; applying it is the
// host application's job.
package action

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"lilynotes-widgets/internal/model"
)

type Name string

const (
	ToggleItemName        Name = "toggle-item"
	ToggleHabitName       Name = "toggle-habit"
	IncrementProgressName Name = "increment-progress"
)

const (
	Scheme = "lilynotes"

	// OpenURI is the tap-through target for the widget background.
	OpenURI = Scheme + "://open"
)

// Deep-link hosts used by the platform widgets.
var hostByName = map[Name]string{
	ToggleItemName:        "checklist-toggle",
	ToggleHabitName:       "habit-toggle",
	IncrementProgressName: "progress-increment",
}

// Kind is the widget kind whose payload the action mutates.
func (n Name) Kind() model.Kind {
	switch n {
	case ToggleHabitName:
		return model.KindHabit
	case IncrementProgressName:
		return model.KindProgress
	default:
		return model.KindChecklist
	}
}

type Request struct {
	ID       string    `json:"id"`
	Name     Name      `json:"name"`
	WidgetID string    `json:"widgetId"`
	Index    int       `json:"index,omitempty"`
	HabitID  string    `json:"habitId,omitempty"`
	IssuedAt time.Time `json:"issuedAt"`
}

func newRequest(name Name, widgetID string) Request {
	return Request{
		ID:       uuid.NewString(),
		Name:     name,
		WidgetID: widgetID,
		IssuedAt: time.Now().UTC(),
	}
}

// ToggleItem requests flipping the checked state of checklist row index.
func ToggleItem(widgetID string, index int) Request {
	r := newRequest(ToggleItemName, widgetID)
	r.Index = index
	return r
}

func ToggleHabit(widgetID, habitID string) Request {
	r := newRequest(ToggleHabitName, widgetID)
	r.HabitID = habitID
	return r
}

func IncrementProgress(widgetID string) Request {
	return newRequest(IncrementProgressName, widgetID)
}

// Deliverable reports whether the request carries the parameters its action
// needs. The platform callbacks silently drop requests without a widget id.
// An empty habit id is deliverable: habits stored without an id are still
// tappable and match the first such habit.
func (r Request) Deliverable() bool {
	if strings.TrimSpace(r.WidgetID) == "" {
		return false
	}
	switch r.Name {
	case ToggleItemName:
		return r.Index >= 0
	case ToggleHabitName, IncrementProgressName:
		return true
	default:
		return false
	}
}

// URI encodes the request as the deep link the host app listens for, e.g.
// lilynotes://habit-toggle?widgetId=w1&habitId=h2.
func (r Request) URI() string {
	q := url.Values{}
	q.Set("widgetId", r.WidgetID)
	switch r.Name {
	case ToggleItemName:
		q.Set("index", strconv.Itoa(r.Index))
	case ToggleHabitName:
		q.Set("habitId", r.HabitID)
	}
	u := url.URL{Scheme: Scheme, Host: hostByName[r.Name], RawQuery: q.Encode()}
	return u.String()
}

type invalidURIError struct {
	uri    string
	reason string
}

func (e invalidURIError) Error() string {
	return fmt.Sprintf("invalid action uri %q: %s", e.uri, e.reason)
}

// Parse is the inverse of Request.URI. The parsed request gets a fresh ID
// unless the URI carries a requestId parameter.
func Parse(raw string) (Request, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Request{}, invalidURIError{uri: raw, reason: err.Error()}
	}
	if u.Scheme != Scheme {
		return Request{}, invalidURIError{uri: raw, reason: "scheme must be " + Scheme}
	}

	var name Name
	for n, host := range hostByName {
		if host == u.Host {
			name = n
		}
	}
	if name == "" {
		return Request{}, invalidURIError{uri: raw, reason: "unknown action " + u.Host}
	}

	q := u.Query()
	r := newRequest(name, q.Get("widgetId"))
	if id := q.Get("requestId"); id != "" {
		r.ID = id
	}
	switch name {
	case ToggleItemName:
		n, err := strconv.Atoi(q.Get("index"))
		if err != nil || n < 0 {
			return Request{}, invalidURIError{uri: raw, reason: "index must be a non-negative integer"}
		}
		r.Index = n
	case ToggleHabitName:
		if !q.Has("habitId") {
			return Request{}, invalidURIError{uri: raw, reason: "missing habitId"}
		}
		r.HabitID = q.Get("habitId")
	}
	if !r.Deliverable() {
		return Request{}, invalidURIError{uri: raw, reason: "missing parameters"}
	}
	return r, nil
}
