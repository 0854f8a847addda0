package broadcast

// Option is a functional option for configuring a [Publisher].
type Option func(*Options)

// Options holds the configuration for a [Publisher].
type Options struct {
	snsAPI API
}

func newOptions() *Options {
	return &Options{}
}

// WithAPI sets a custom [API] implementation. This is useful when a custom
// SNS configuration is required, or for injecting mocks in tests.
func WithAPI(api API) Option {
	return func(o *Options) {
		o.snsAPI = api
	}
}
