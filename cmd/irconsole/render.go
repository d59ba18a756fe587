package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/rcourtman/irconsole/internal/console"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
)

// termRenderer prints modal changes as they happen. The explanation panel is
// printed incrementally: only the text added since the last render.
type termRenderer struct {
	out io.Writer

	mu          sync.Mutex
	state       console.State
	title       string
	content     string
	explanation string
	inPanel     bool
}

func newTermRenderer(out io.Writer) *termRenderer {
	return &termRenderer{out: out}
}

func (r *termRenderer) Render(s console.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.State == console.StateClosed {
		r.finishPanel()
		r.state, r.title, r.content, r.explanation = s.State, "", "", ""
		return
	}

	if s.Title != r.title || s.Content != r.content {
		r.finishPanel()
		if s.Title != "" && s.Title != r.title {
			fmt.Fprintln(r.out, titleStyle.Render("== "+s.Title+" =="))
		}
		if s.Content != "" {
			fmt.Fprintln(r.out, s.Content)
		}
		r.title, r.content = s.Title, s.Content
		r.explanation = ""
	}

	if s.ExplanationVisible && s.Explanation != r.explanation {
		if !r.inPanel {
			fmt.Fprintln(r.out, sectionStyle.Render("-- AI explanation --"))
			r.inPanel = true
		}
		if strings.HasPrefix(s.Explanation, r.explanation) {
			fmt.Fprint(r.out, strings.TrimPrefix(s.Explanation, r.explanation))
		} else {
			fmt.Fprint(r.out, "\n"+s.Explanation)
		}
		r.explanation = s.Explanation
	}

	if r.state == console.StateExplaining && s.State == console.StateDisplayed {
		r.finishPanel()
	}
	r.state = s.State
}

func (r *termRenderer) finishPanel() {
	if r.inPanel {
		fmt.Fprintln(r.out)
		r.inPanel = false
	}
}

func dim(s string) string {
	return dimStyle.Render(s)
}
