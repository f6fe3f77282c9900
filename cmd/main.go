package main

import (
	"log"

	"github.com/stephenwzkong/personal-assistant/config"
	"github.com/stephenwzkong/personal-assistant/routes"
	"github.com/stephenwzkong/personal-assistant/services"
	"github.com/stephenwzkong/personal-assistant/utils"
)

func main() {
	config.LoadEnv()
	config.InitDB()
	utils.InitS3()
	utils.InitSES()

	hub := services.NewRealtimeHub()

	push, err := services.NewPushService(config.DB)
	if err != nil {
		log.Printf("push notifications disabled: %v", err)
		push = nil
	}

	r := routes.SetupRouter(hub, push)
	r.Run(":" + config.Port())
}
