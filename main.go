package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	logFile := flag.String("log", "", "also write the log to this file (rotated)")
	configPath := flag.String("config", "", "config file (default ~/.nimv.json)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [image|archive]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	closer := setupLogging(*logFile, *debug)
	defer closer.Close()

	path := *configPath
	if path == "" {
		path = getConfigPath()
	}
	configStatus := loadConfigFromPath(path)
	config := configStatus.Config
	debugLog("Config %s: %s", path, configStatus.Status)

	g := NewGame(configStatus, path)
	if flag.NArg() > 0 {
		g.openPath(flag.Arg(0))
	}

	ebiten.SetWindowTitle(appTitle)
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(config.Fullscreen)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
