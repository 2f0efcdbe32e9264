// Package contact picks the floating contact link for the current page.
package contact

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidPhone 表示号码中没有任何数字，无法生成联系链接。
var ErrInvalidPhone = errors.New("contact phone has no digits")

// StudyAbroadPath is the only route that switches the contact target.
const StudyAbroadPath = "/studyabroad"

// State is the widget's current target selection.
type State int

const (
	// Default selects target A.
	Default State = iota
	// StudyAbroad selects target B.
	StudyAbroad
)

func (s State) String() string {
	if s == StudyAbroad {
		return "studyAbroad"
	}
	return "default"
}

// Target 外部消息服务的联系入口。
type Target struct {
	Label   string `json:"label"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

// Digits strips everything but 0-9 from phone.
func Digits(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}

// NewTarget builds a wa.me link for phone with a prefilled message.
func NewTarget(label, phone, message string) (Target, error) {
	digits := Digits(phone)
	if digits == "" {
		return Target{}, fmt.Errorf("%w: %s %q", ErrInvalidPhone, label, phone)
	}

	link := "https://wa.me/" + digits
	if message = strings.TrimSpace(message); message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return Target{Label: label, Phone: digits, Message: message, URL: link}, nil
}

// Resolve maps a navigation path to a state. Only the study-abroad path itself selects
// StudyAbroad; query strings, fragments and a trailing slash are ignored.
func Resolve(path string) State {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == StudyAbroadPath {
		return StudyAbroad
	}
	return Default
}

// Widget holds the two targets and the state for the current path.
type Widget struct {
	defaultTarget     Target
	studyAbroadTarget Target
	state             State
}

// NewWidget starts in the Default state.
func NewWidget(defaultTarget, studyAbroadTarget Target) *Widget {
	return &Widget{defaultTarget: defaultTarget, studyAbroadTarget: studyAbroadTarget}
}

// Navigate re-evaluates the state for path and returns the selected target.
func (w *Widget) Navigate(path string) Target {
	w.state = Resolve(path)
	return w.Current()
}

// State returns the current state.
func (w *Widget) State() State {
	return w.state
}

// Current returns the target for the current state.
func (w *Widget) Current() Target {
	return w.TargetFor(w.state)
}

// TargetFor returns the target bound to s.
func (w *Widget) TargetFor(s State) Target {
	if s == StudyAbroad {
		return w.studyAbroadTarget
	}
	return w.defaultTarget
}
