// Package broadcast publishes status-update requests for every initiative
// that is not yet complete. A periodic external trigger invokes
// [Publisher.RequestUpdates]; the package performs a filtered read through
// the store gateway and a fan-out publish, never a state mutation.
package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"golang.org/x/sync/errgroup"

	"github.com/manwaring/initiative-tracker/internal/initiative"
	"github.com/manwaring/initiative-tracker/internal/store"
)

// maxConcurrentPublishes bounds the per-initiative fan-out.
const maxConcurrentPublishes = 10

// API is the subset of the SNS service client used by [Publisher].
// It exists so that tests can inject a mock via [WithAPI].
type API interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher reads all non-complete initiatives and publishes one JSON
// message per initiative to an SNS topic, from which the downstream
// notification flow requests status updates from champions.
//
// Create a Publisher with [New] and call [Publisher.Init] once before
// publishing. Init is not thread-safe; [Publisher.RequestUpdates] is safe
// for concurrent use after Init returns.
type Publisher struct {
	client      API
	gateway     store.Gateway
	topicARN    string
	awsCfg      *aws.Config
	opts        *Options
	initialized bool
}

// New creates a Publisher that reads initiatives through gateway and
// publishes to the SNS topic identified by topicARN.
//
// New does not connect to AWS. Call [Publisher.Init] before publishing.
func New(awsCfg *aws.Config, topicARN string, gateway store.Gateway, opts ...Option) (*Publisher, error) {
	if gateway == nil {
		return nil, errors.New("store gateway cannot be nil")
	}

	if topicARN == "" {
		return nil, errors.New("topic ARN cannot be empty")
	}

	options := newOptions()

	for _, o := range opts {
		o(options)
	}

	return &Publisher{
		awsCfg:   awsCfg,
		gateway:  gateway,
		topicARN: topicARN,
		opts:     options,
	}, nil
}

// Init initializes the Publisher by constructing the underlying SNS client
// from the AWS configuration supplied to [New]. It returns the receiver so
// that initialization can be chained:
//
//	publisher, err := broadcast.New(&awsCfg, topicARN, gateway)
//	...
//	publisher, err = publisher.Init(ctx)
//
// Init is idempotent; subsequent calls on an already-initialized publisher
// are no-ops. It is not thread-safe and must be called once during
// application startup before any concurrent access.
func (p *Publisher) Init(_ context.Context) (*Publisher, error) {
	if p.initialized {
		return p, nil
	}

	if p.opts.snsAPI != nil {
		p.client = p.opts.snsAPI
	} else {
		p.client = sns.NewFromConfig(*p.awsCfg)
	}

	p.initialized = true

	return p, nil
}

// RequestUpdates queries every initiative, drops the COMPLETE ones, and
// publishes one message per remaining initiative concurrently. It returns
// the number of messages published. A single failed publish fails the
// whole run.
func (p *Publisher) RequestUpdates(ctx context.Context) (int, error) {
	if !p.initialized {
		return 0, errors.New("broadcast publisher not initialized")
	}

	records, err := p.gateway.QueryAllInitiatives(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load initiatives for status-update broadcast: %w", err)
	}

	var pending []initiative.Initiative

	for _, view := range initiative.Initiatives(records) {
		if view.Status != initiative.StatusComplete {
			pending = append(pending, view)
		}
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentPublishes)

	for _, view := range pending {
		view := view
		group.Go(func() error {
			return p.publish(ctx, view)
		})
	}

	if err := group.Wait(); err != nil {
		return 0, err
	}

	return len(pending), nil
}

func (p *Publisher) publish(ctx context.Context, view initiative.Initiative) error {
	body, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal initiative %s: %w", view.InitiativeID, err)
	}

	input := &sns.PublishInput{
		TopicArn: &p.topicARN,
		Message:  aws.String(string(body)),
	}

	if _, err := p.client.Publish(ctx, input); err != nil {
		return fmt.Errorf("failed to publish status-update request for initiative %s: %w", view.InitiativeID, err)
	}

	return nil
}
