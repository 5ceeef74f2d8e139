package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/secandoalei/secando/internal/ui/theme"
)

// Checklist is a vertical list of toggleable items.
type Checklist struct {
	Items    []string
	Checked  []bool
	Selected int
}

// NewChecklist creates a checklist with every item checked.
func NewChecklist(items []string) Checklist {
	checked := make([]bool, len(items))
	for i := range checked {
		checked[i] = true
	}
	return Checklist{Items: items, Checked: checked}
}

// Update handles cursor movement and space to toggle.
func (c Checklist) Update(msg tea.Msg) (Checklist, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(c.Items) == 0 {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Items)-1 {
			c.Selected++
		}
	case "space", " ":
		c.Checked[c.Selected] = !c.Checked[c.Selected]
	}
	return c, nil
}

// SetAll checks or clears every item.
func (c *Checklist) SetAll(v bool) {
	for i := range c.Checked {
		c.Checked[i] = v
	}
}

// Count returns the number of checked items.
func (c Checklist) Count() int {
	n := 0
	for _, v := range c.Checked {
		if v {
			n++
		}
	}
	return n
}

// CheckedIndexes returns the indexes of checked items in order.
func (c Checklist) CheckedIndexes() []int {
	var out []int
	for i, v := range c.Checked {
		if v {
			out = append(out, i)
		}
	}
	return out
}

// View renders at most height rows, scrolled to keep the cursor visible.
func (c Checklist) View(height int) string {
	start, end := 0, len(c.Items)
	if height > 0 && end > height {
		start = c.Selected - height/2
		if start < 0 {
			start = 0
		}
		if start+height > end {
			start = end - height
		}
		end = start + height
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		box := "[ ]"
		if c.Checked[i] {
			box = "[x]"
		}
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == c.Selected {
			cursor = "▸ "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		if c.Checked[i] && i != c.Selected {
			style = style.Foreground(theme.Success)
		}
		b.WriteString(style.Render(cursor + box + " " + c.Items[i]))
		b.WriteString("\n")
	}
	return b.String()
}
