package dynamodb

import "errors"

// Option is a functional option for configuring a [Client].
type Option func(*Options)

// Options holds the configuration for a [Client]. Use [Option] functions
// (such as [WithStatusIndexName] or [WithAPI]) to customise the defaults.
type Options struct {
	statusIndexName string
	typeIndexName   string
	dynamoDBAPI     API
}

func newOptions() *Options {
	return &Options{
		statusIndexName: GSIStatus,
		typeIndexName:   GSIType,
	}
}

func (o *Options) validate() error {
	if o.statusIndexName == "" {
		return errors.New("status index name cannot be empty")
	}

	if o.typeIndexName == "" {
		return errors.New("type index name cannot be empty")
	}

	return nil
}

// WithStatusIndexName overrides the name of the team-scoped status index.
// The default is [GSIStatus]. The name must not be empty.
func WithStatusIndexName(name string) Option {
	return func(o *Options) {
		o.statusIndexName = name
	}
}

// WithTypeIndexName overrides the name of the all-initiatives type index.
// The default is [GSIType]. The name must not be empty.
func WithTypeIndexName(name string) Option {
	return func(o *Options) {
		o.typeIndexName = name
	}
}

// WithAPI sets a custom [API] implementation. This is useful when a custom
// DynamoDB configuration is required, or for injecting mocks in tests.
func WithAPI(api API) Option {
	return func(o *Options) {
		o.dynamoDBAPI = api
	}
}
