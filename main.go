package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	mylora "github.com/mylora/mylora-desktop/internal/app"
	"github.com/mylora/mylora-desktop/internal/config"
	"github.com/mylora/mylora-desktop/internal/logging"
	"github.com/mylora/mylora-desktop/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "io.mylora.desktop"
	AppName = "MyLoRA"

	WindowWidth  = 960
	WindowHeight = 680
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logging.New(logging.Options{Level: env.LogLevel, Format: env.LogFormat})
	log.Info().Str("version", version).Msg("MyLoRA desktop starting")

	fyneApp := app.NewWithID(AppID)
	fyneApp.Settings().SetTheme(ui.NewCompactTheme())

	settings := config.NewSettings(fyneApp, env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services := mylora.New(mylora.Config{
		Origin:           settings.GetAPIBaseURL(),
		UserAgent:        env.UserAgent,
		PreviewMaxIndex:  settings.GetPreviewMaxIndex(),
		ProbeConcurrency: env.ProbeConcurrency,
		Logger:           log,
		Dispatch:         fyne.Do,
		Context:          ctx,
	})

	window := fyneApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	window.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	window.SetMaster()

	ui.NewRootUI(window, fyneApp, services.Session, services.Client.Locator(), settings, log)

	window.ShowAndRun()
}
