// This package does nothing other than import all other module packages.
package _all

import (
	_ "github.com/pitchside/pitchbot/modules/game"
	_ "github.com/pitchside/pitchbot/modules/usercache"
)
