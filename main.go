package main

import (
	"consumable_stock_ledger/app"
	"consumable_stock_ledger/config"
	"consumable_stock_ledger/routes"
	"log"
	"os"
)

func main() {
	cfg := config.LoadConfig()

	application := app.MustNew(cfg)
	defer application.Close()

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	log.Printf("listening on :%s", port)
	_ = r.Run(":" + port)
}
