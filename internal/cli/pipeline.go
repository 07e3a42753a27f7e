package cli

// Step is a single unit of work in a release pipeline. Steps typically close
// over a handler-local options value so later steps can read fields earlier
// steps set (e.g. the branch inferred from git state).
type Step func(ctx *Context) error

// Pipeline composes steps into a single step that runs them strictly in
// order. The first failing step aborts the remainder and its error is
// propagated to the caller unchanged. There is no rollback: a failed
// multi-step release leaves the repository at the last successful step, and
// re-running is the expected recovery path.
func Pipeline(steps ...Step) Step {
	return func(ctx *Context) error {
		for _, step := range steps {
			if err := step(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}
