package main

import (
	"github.com/wrenhq/wellnest/config"
	"github.com/wrenhq/wellnest/models"
	"github.com/wrenhq/wellnest/notify"
	"github.com/wrenhq/wellnest/routes"
	"github.com/wrenhq/wellnest/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.CheckIn{}, &models.Habit{}, &models.HabitCompletion{})

	var notifier notify.Notifier
	if rc := utils.GetRedis(); rc != nil {
		notifier = notify.NewRedis(rc)
	} else {
		notifier = notify.NewMemory()
	}

	r := routes.SetupRouter(db, notifier)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
