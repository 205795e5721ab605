// Command migrate aplica o revierte las migraciones embebidas.
//
//	migrate up        aplica las pendientes
//	migrate down      revierte la última
//	migrate version   muestra la versión actual
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/vendor-admin-api/internal/infrastructure/postgres"
	"github.com/jhoicas/vendor-admin-api/pkg/config"
	"github.com/jhoicas/vendor-admin-api/pkg/logger"
)

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	os.Exit(run(cmd))
}

func run(cmd string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		return 1
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	mg, err := postgres.NewMigrator(cfg.DB.ConnectionString())
	if err != nil {
		log.Error().Err(err).Msg("abrir migrador")
		return 1
	}
	defer mg.Close()

	switch cmd {
	case "up":
		err = mg.Up()
	case "down":
		err = mg.Down()
	case "version":
		var (
			v     uint
			dirty bool
		)
		v, dirty, err = mg.Version()
		if err == nil {
			log.Info().Uint("version", v).Bool("dirty", dirty).Msg("versión de esquema")
		}
	default:
		log.Error().Str("cmd", cmd).Msg("comando desconocido (up, down, version)")
		return 2
	}
	if err != nil {
		log.Error().Err(err).Str("cmd", cmd).Msg("migración fallida")
		return 1
	}
	log.Info().Str("cmd", cmd).Msg("listo")
	return 0
}
