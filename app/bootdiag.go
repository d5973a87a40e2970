//go:build !(tinygo && bootdebug)

package app

import "macropad/hal"

func bootStep(hal.HAL, string) {}
