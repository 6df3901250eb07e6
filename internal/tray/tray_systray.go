//go:build systray

package tray

import (
	"context"

	"github.com/getlantern/systray"
)

type Systray struct {
	Title   string
	Account func() string
	Quit    func()
}

func New(title string, account func() string, quit func()) App {
	return &Systray{Title: title, Account: account, Quit: quit}
}

func (s *Systray) Run(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		systray.Quit()
	}()
	systray.Run(func() {
		systray.SetTitle(s.Title)
		label := "Not signed in"
		if s.Account != nil {
			if who := s.Account(); who != "" {
				label = who
			}
		}
		systray.AddMenuItem(label, "Current account").Disable()
		mQuit := systray.AddMenuItem("Quit", "Quit EventiFy Desk")
		go func() {
			<-mQuit.ClickedCh
			if s.Quit != nil {
				s.Quit()
			}
			systray.Quit()
		}()
	}, func() {
		close(done)
	})
	<-done
	return nil
}
