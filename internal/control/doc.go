// Package control is the command surface shared by the front-ends.
//
// A [Panel] turns user intents (add a pendulum, remove the selected one,
// nudge an arm length, copy physics to everyone, restart) into registry
// and driver calls. It owns the current selection and the rule that a
// physical edit restarts the simulation when restart-on-edit is enabled.
// Appearance edits never restart.
//
//	panel := control.NewPanel(drv, true, logger, nil)
//	if tok, restarted, err := panel.Edit(func(p *physics.Params) { p.L1 += 10 }); restarted {
//	    schedule(tok)
//	}
package control
