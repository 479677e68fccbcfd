// Package operations runs the study pipeline.
//
// A Pipeline executes its steps in order (load, transform, render, then
// export and preview when configured). Each step runs inside its own span
// and is timed into the stage duration histogram. The first failing step
// stops the run; the error is an *OperationError naming the stage.
//
// Usage:
//
//	p, err := operations.NewPipelineFromConfig(cfg, logger, telemetry)
//	if err != nil {
//	    return err
//	}
//	result, err := p.Run(ctx)
package operations
