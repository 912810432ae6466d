package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/talkclient/internal/buildinfo"
	"github.com/dmitrijs2005/talkclient/internal/client/cli"
	"github.com/dmitrijs2005/talkclient/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	app, err := cli.NewApp(config.LoadConfig())
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	app.Run(context.Background())
}
