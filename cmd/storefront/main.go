package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/craftista/storefront/config"
	"github.com/craftista/storefront/internal/adminapi"
	"github.com/craftista/storefront/internal/app"
	"github.com/craftista/storefront/internal/webserver"
)

var (
	confFile = flag.String("c", "/etc/craftista.yml", "config file")
	initDB   = flag.Bool("initdb", false, "run schema migration and seed data, then exit")
	showVer  = flag.Bool("v", false, "show version")
)

var buildVersion = "dev"

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println("craftista storefront", buildVersion)
		os.Exit(0)
	}

	cfg := config.LoadConfig(*confFile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if err := application.MigrateDB(); err != nil {
		zap.S().Fatalf("database migration failed: %s", err.Error())
	}
	if *initDB {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}
	application.InitDb()

	webserver.Init(application)
	adminapi.InitRouter()

	if err := webserver.Start(); err != nil {
		zap.S().Fatalf("admin api stopped: %s", err.Error())
	}
}
