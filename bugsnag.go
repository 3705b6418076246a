package main

import (
	"log"

	"github.com/MixinNetwork/amm.one/config"
	"github.com/bugsnag/bugsnag-go"
)

func setupBugsnag() {
	bugsnag.Configure(bugsnag.Configuration{
		APIKey:              config.BugsnagAPIKey,
		AppVersion:          config.BuildVersion,
		ReleaseStage:        config.Environment,
		NotifyReleaseStages: []string{"staging", "production"},
		ProjectPackages:     []string{"main", "github.com/MixinNetwork/amm.one/*"},
		PanicHandler:        func() {},
		Logger:              &bugsnagLogger{},
	})
}

type bugsnagLogger struct{}

func (logger *bugsnagLogger) Printf(format string, v ...interface{}) {
	if config.Environment != "production" {
		log.Printf("[bugsnag] "+format, v...)
	}
}
