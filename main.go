// Package main provides the entry point for the Paint Canvas demo.
package main

import (
	"log"
	"time"

	"paint-canvas/internal/app"
	"paint-canvas/internal/version"
	"paint-canvas/ui/mainwindow"
	"paint-canvas/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

const appTitle = "Paint Canvas"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.NewWithID("io.paintcanvas.demo")
	fyneApp.Settings().SetTheme(&app.PainterTheme{})

	appState := app.NewState()
	appPrefs := prefs.Load()

	win, err := mainwindow.New(fyneApp, appState, appPrefs)
	if err != nil {
		log.Fatalf("Failed to create main window: %v", err)
	}

	setupHotReload(win)

	win.ShowAndRun()
}

// setupHotReload configures automatic restart detection when the
// binary is recompiled.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	log.Printf("Hot reload: watching %s (modified %s)",
		reloader.ExecPath(), reloader.StartupTime().Format("15:04:05"))

	reloader.OnTick(func() {
		win.SavePreferencesIfChanged()
	})

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if restart {
					log.Println("Hot reload: saving preferences before restart...")
					win.SavePreferences()
					log.Println("Hot reload: restarting...")
					if err := reloader.Restart(); err != nil {
						log.Printf("Hot reload: restart failed: %v", err)
					}
					return
				}
				reloader.ResetBaseline()
				reloader.Start()
			}, win.Window)
	})

	reloader.Start()
}
