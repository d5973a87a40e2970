//go:build tinygo

package main

import (
	"context"

	"macropad/app"
	"macropad/config"
	"macropad/hal"
)

func main() {
	app.Run(context.Background(), hal.New(), config.Default())
}
