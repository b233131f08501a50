package views

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestHome_ShortcutsEmitNavigation(t *testing.T) {
	tests := []struct {
		key  string
		want tea.Msg
	}{
		{"n", NavigateToDestination{}},
		{"r", NavigateToRecent{}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, cmd := NewHomeModel("dev", "Paris").Update(keyMsg(tt.key))
			if cmd == nil {
				t.Fatal("no command")
			}
			if got := cmd(); got != tt.want {
				t.Fatalf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestHome_EnterRunsSelection(t *testing.T) {
	var m tea.Model = NewHomeModel("dev", "Paris")
	m, _ = m.Update(keyMsg("down"))
	_, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("no command")
	}
	if _, ok := cmd().(NavigateToRecent); !ok {
		t.Fatal("second entry should open recent destinations")
	}

	// moving up from the first entry wraps to exit
	m = NewHomeModel("dev", "")
	m, _ = m.Update(keyMsg("k"))
	if got := m.(HomeModel).selected; got != 2 {
		t.Fatalf("selected = %d, want 2", got)
	}
	_, cmd = m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("no quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("exit entry should quit")
	}
}
