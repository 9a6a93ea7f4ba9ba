package main

import (
	"flag"

	"tipocambio/internal/app"

	"github.com/sirupsen/logrus"
)

func main() {
	configFile := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	if err := app.Run(*configFile); err != nil {
		logrus.WithError(err).Fatal("Application stopped")
	}
}
