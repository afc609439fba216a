// Package volley runs declarative load tests against HTTP, GraphQL, SOAP
// and SQL backends.
//
// A test plan names a scenario (worker count, iterations, ramp-up, hold),
// an ordered list of templated requests, layered variables with optional
// CSV data feeds, per-request validation rules, and the thresholds that
// decide pass or fail. This package is the programmatic surface over the
// same machinery the volley CLI drives.
//
// # Quick Start
//
//	result, err := volley.Run(ctx, "checkout.yaml", volley.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("samples: %d\n", result.Snapshot.Count)
//	fmt.Printf("p95:     %v\n", result.Snapshot.P95)
//	fmt.Printf("passed:  %v\n", result.Passed)
//
// # Step by Step
//
// Load a plan, inspect or validate it, then run:
//
//	plan, err := volley.LoadFile("checkout.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := plan.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	runner, err := volley.NewRunner(plan, volley.Options{
//	    Logger: logger,
//	    Globals: map[string]string{"env": "staging"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Run(ctx)
//
// While Run is in flight, runner.Collector() exposes live counters and
// streaming percentiles for progress displays.
package volley
