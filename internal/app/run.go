package app

import (
	"os"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/data/binding"
	"go.uber.org/zap"

	"yashubustudio/pocketsite/pocketsite"
)

const fyneAppID = "studio.yashubu.pocketsite"

// Run loads the configuration and starts the desktop UI.
func Run(configPath string) error {
	cfg, err := pocketsite.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logBind := binding.NewString()
	pane := newLogCapture(logBind, logLimit)
	logger := newLogger(os.Stderr, pane)
	defer logger.Sync()

	svc := pocketsite.NewService(cfg, logger)
	a := fyneapp.NewWithID(fyneAppID)
	u := buildUI(a, svc, logBind)
	u.cfgPath = configPath
	u.restoreSession()
	u.w.ShowAndRun()

	if err := pocketsite.SaveConfig(configPath, u.service.Config()); err != nil {
		logger.Warn("save config failed", zap.Error(err))
	}
	return nil
}
