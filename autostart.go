package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
)

// setupAutostart registers or removes the launch-at-login entry
func setupAutostart(enable bool) error {
	execPath, err := os.Executable()
	if err != nil {
		return err
	}

	// Resolve symlinks if any
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return err
	}

	entry := &autostart.App{
		Name:        "kalendria",
		DisplayName: "Kalendria",
		Exec:        []string{execPath},
	}

	switch {
	case enable && !entry.IsEnabled():
		if err := entry.Enable(); err != nil {
			log.Printf("Failed to enable autostart: %v", err)
			return err
		}
		log.Println("Autostart enabled")
	case !enable && entry.IsEnabled():
		if err := entry.Disable(); err != nil {
			log.Printf("Failed to disable autostart: %v", err)
			return err
		}
		log.Println("Autostart disabled")
	}

	return nil
}
