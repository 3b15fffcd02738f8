// Package main is the signature CLI entrypoint.
package main

import (
	"os"

	"github.com/dmitriy-dronov-550503/signature/internal/app"
)

func main() {
	application := app.New()
	os.Exit(application.Run(os.Args[1:]))
}
