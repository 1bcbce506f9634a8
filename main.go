package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"famicore/emu"
)

var version = "devel"

func main() {
	cli := parseArgs(os.Args[1:])

	cfg, err := emu.LoadConfig(cli.ConfigPath)
	checkf(err, "failed to load configuration")
	checkf(cfg.Log.Apply(), "invalid log configuration")

	switch cli.mode {
	case runMode:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = runMain(ctx, cli.Run, cfg, os.Stdout)
	case asmMode:
		err = asmMain(cli.Asm, cfg, os.Stdout)
	case disasmMode:
		err = disasmMain(cli.Disasm, cfg, os.Stdout)
	case romInfosMode:
		err = romInfosMain(cli.RomInfos, os.Stdout)
	case configMode:
		err = configMain(cli.Config, cli.ConfigPath, cfg, os.Stdout)
	case versionMode:
		fmt.Println("famicore", version)
	}
	checkf(err, "command failed")
}
