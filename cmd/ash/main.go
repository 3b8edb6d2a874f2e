// Ash is a desktop companion robot: it chats through Gemini, shows its
// mood on a 3.5" SPI display and waves two hobby servo arms.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/lakshya-inakhiya/go-ash/internal/config"
	applog "github.com/lakshya-inakhiya/go-ash/internal/log"
	"github.com/lakshya-inakhiya/go-ash/pkg/ash"
	"github.com/lakshya-inakhiya/go-ash/pkg/display"
)

func main() {
	settings, opts := parseFlags()

	applog.Init(settings.Main.LogLevel)

	app, err := ash.New(settings, opts...)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Init(ctx); err != nil {
		log.Fatalf("❌ Initialization failed: %v", err)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("❌ Runtime error: %v", err)
	}
}

// parseFlags loads the YAML settings and applies command line overrides.
func parseFlags() (config.Settings, []ash.Option) {
	configPath := flag.String("config", config.DefaultPath, "Path to the settings file")
	backend := flag.String("backend", "", "Display backend: auto, spi, framebuffer, simulated")
	facesDir := flag.String("faces", "", "Directory holding the expression PNGs")
	web := flag.Bool("web", false, "Serve the browser preview")
	webAddr := flag.String("web-addr", "", "Preview listen address (implies -web)")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")

	var textOnly bool
	flag.BoolVar(&textOnly, "text", false, "Force text input even when a microphone is present")
	flag.BoolVar(&textOnly, "text-only", false, "Alias for -text")

	webFlagSet := false
	flag.Parse()
	flag.Visit(func(f *flag.Flag) { webFlagSet = webFlagSet || f.Name == "web" })

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	if *backend != "" {
		settings.Display.Backend = display.Kind(*backend)
	}
	if *facesDir != "" {
		settings.Display.FacesDir = *facesDir
	}
	if webFlagSet {
		settings.Web.Enabled = *web
	}
	if *webAddr != "" {
		settings.Web.Enabled = true
		settings.Web.Addr = *webAddr
	}
	if *debug {
		settings.Main.LogLevel = "debug"
	}

	var opts []ash.Option
	if textOnly {
		opts = append(opts, ash.WithTextOnly())
	}
	return settings, opts
}
