package engine

import (
	"go.uber.org/fx"
)

// RegisterLifecycle binds sup's Start/Stop to lc, so the engine subprocess
// comes up and goes down with the rest of the gateway's fx app. A Start
// failure here propagates as an fx app start error, which is fatal per spec:
// the gateway must not begin serving HTTP against a dead engine.
func RegisterLifecycle(lc fx.Lifecycle, sup *Supervisor) {
	lc.Append(fx.Hook{
		OnStart: sup.Start,
		OnStop:  sup.Stop,
	})
}
