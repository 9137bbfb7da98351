package host

// DefaultMaxTicks bounds a run to the prototype's ten updates. Production
// deployments set zero to run until host shutdown.
const DefaultMaxTicks = 10

// Option defines a functional option for configuring the Scheduler.
type Option func(*Scheduler)

// WithMaxTicks sets the number of update calls after which the scheduler
// requests host shutdown. Zero removes the bound.
func WithMaxTicks(n uint64) Option {
	return func(s *Scheduler) {
		s.maxTicks = n
	}
}
