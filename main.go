package main

import (
	"embed"
	"log"
	"os"

	"taskdeck/internal/app"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	env := os.Getenv("TASKDECK_ENV")
	if env == "" {
		env = "production"
	}

	// Create an instance of the app structure
	application, err := app.NewApp(env)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	logLevel := logger.INFO
	if env == "development" {
		logLevel = logger.DEBUG
	}

	// Create application with options
	err = wails.Run(&options.App{
		Title:             "taskdeck",
		Width:             420,
		Height:            560,
		MinWidth:          320,
		MinHeight:         240,
		DisableResize:     false,
		Fullscreen:        false,
		Frameless:         true,
		StartHidden:       false,
		HideWindowOnClose: false,
		AlwaysOnTop:       true,
		BackgroundColour:  &options.RGBA{R: 0, G: 0, B: 0, A: 0},
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Menu:             nil,
		Logger:           app.WailsLogger(application),
		LogLevel:         logLevel,
		OnStartup:        application.Startup,
		OnDomReady:       application.DomReady,
		OnBeforeClose:    application.BeforeClose,
		OnShutdown:       application.Shutdown,
		WindowStartState: options.Normal,
		Bind: []interface{}{
			application,
		},
		// Windows platform specific options
		Windows: &windows.Options{
			WebviewIsTransparent: true,
			WindowIsTranslucent:  true,
			DisableWindowIcon:    true,
			WebviewUserDataPath:  "",
			ZoomFactor:           1.0,
			BackdropType:         windows.Mica,
		},
	})

	if err != nil {
		log.Fatal(err)
	}
}
