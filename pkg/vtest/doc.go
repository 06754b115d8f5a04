// Package vtest provides testing helpers for Glint: a recording Host whose
// mutation trace tests assert against, and a hand-pumped Dispatcher that
// makes the scheduler's microtask and frame boundaries deterministic.
//
// Typical usage:
//
//	rt, host, pump := vtest.NewRuntime()
//	rt.Mount(el.Div(el.Span("hi")), host.Container())
//	pump.Settle()
//	if got := vtest.Markup(host.Container()); got != `<div><span>hi</span></div>` {
//	    t.Errorf("markup = %s", got)
//	}
package vtest
