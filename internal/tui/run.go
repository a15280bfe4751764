package tui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/Veraticus/mapping-lia/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

// Navigator lets the HTTP client and session store send the console back to
// the login screen from any goroutine.
type Navigator struct {
	program *tea.Program
	mu      sync.Mutex
	onLogin atomic.Bool
}

var _ service.Navigator = (*Navigator)(nil)

// NewNavigator returns a navigator that starts on the login screen.
func NewNavigator() *Navigator {
	n := &Navigator{}
	n.onLogin.Store(true)
	return n
}

// ToLogin switches the running console to the login screen.
func (n *Navigator) ToLogin() {
	n.mu.Lock()
	p := n.program
	n.mu.Unlock()
	if p != nil {
		go p.Send(navigateLoginMsg{})
	}
}

// OnLogin reports whether the login screen is showing.
func (n *Navigator) OnLogin() bool {
	return n.onLogin.Load()
}

func (n *Navigator) attach(p *tea.Program) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.program = p
}

func (n *Navigator) setOnLogin(v bool) {
	if n == nil {
		return
	}
	n.onLogin.Store(v)
}

// Run starts the console and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, cfg Config, nav *Navigator, opts ...Option) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := NewModel(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	if nav == nil {
		nav = NewNavigator()
	}
	m.nav = nav
	nav.setOnLogin(m.screen == ScreenLogin)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	nav.attach(p)
	defer nav.attach(nil)

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("console: %w", err)
	}
	return nil
}
