package main

import (
	"ForestEdu/internal/app"
	"ForestEdu/internal/config"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.MustLoad()
	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	app.Run(cfg)
}
