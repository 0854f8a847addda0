package engine

import "time"

// Option is a functional option for configuring an [Engine].
type Option func(*Options)

// Options holds the configuration for an [Engine].
type Options struct {
	clock func() time.Time
}

func newOptions() *Options {
	return &Options{
		clock: time.Now,
	}
}

// WithClock sets a custom clock function used when stamping member join
// times. Defaults to [time.Now]. This is useful for controlling time in
// tests.
func WithClock(clock func() time.Time) Option {
	return func(o *Options) {
		o.clock = clock
	}
}
