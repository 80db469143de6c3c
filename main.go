package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/gunrunner/common"
)

func main() {
	debug := flag.Bool("debug", false, "draw collision geometry")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "level_1", "level prefab name in prefabs/ (basename, .yaml optional)")
	hotReload := flag.Bool("watch", false, "reload edited prefabs and scripts from disk")
	music := flag.Bool("music", true, "play the level track and drive the encounter from it")
	seed := flag.Uint64("seed", 0, "random seed (0 picks one)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("gunrunner")
	ebiten.SetTPS(common.TPS)

	game, err := NewGame(GameOptions{
		Level:     *levelName,
		Debug:     *debug,
		HotReload: *hotReload,
		Music:     *music,
		Seed:      *seed,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		log.Fatal(err)
	}
}
