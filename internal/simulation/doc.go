// Package simulation provides a multi-tick test harness for validating
// end-to-end dynamics of the heat-stress loop.
//
// The harness exercises the real Controller, signal generator, SQLite
// roster store, and oracle client interface together; only the oracle's
// network side is scripted. Scenarios are Go builders that seed a roster,
// start a run, and drive a configurable number of ticks, capturing every
// published update and the terminal event for property-based assertions.
//
// Each test gets an isolated SQLite database via t.TempDir(), so runs
// never touch user data.
//
// Usage:
//
//	func TestHeatUpCompletes(t *testing.T) {
//	    r := simulation.NewRunner(t)
//	    result := r.Run(simulation.Scenario{
//	        Name:    "heat-up-completes",
//	        Workers: []simulation.WorkerSpec{{Name: "ana"}},
//	        Mode:    vitals.ModeHeatUp,
//	    })
//	    simulation.AssertTerminalReason(t, result, sim.ReasonCompleted)
//	}
package simulation
