package main

import (
	"os"

	"github.com/soumaisfe-svg/vida-fit-control-1/config"
	"github.com/soumaisfe-svg/vida-fit-control-1/routes"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"
)

func main() {
	utils.InitLogger()
	config.InitDB()
	if err := utils.InitS3(); err != nil {
		utils.Log.Warn().Err(err).Msg("s3 unavailable, photo uploads disabled")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter()
	if err := r.Run(":" + port); err != nil {
		utils.Log.Fatal().Err(err).Msg("server exited")
	}
}
