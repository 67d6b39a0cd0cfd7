package main

import (
	"os"

	"github.com/Mareeswari30/Smart-Banking/app"
	"github.com/Mareeswari30/Smart-Banking/logger"
)

// @title           Smart Banking API
// @version         1.0
// @description     Registration with KYC documents, JWT login, accounts with an initial deposit and a per-user dashboard.

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey AdminKey
// @in header
// @name X-Admin-Key
func main() {
	if err := app.Run(); err != nil {
		logger.Log.Error(err)
		os.Exit(1)
	}
}
