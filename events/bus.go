package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const CONSUMER_GROUP_PREFIX string = "tutor-marketplace."

// Bus carries booking events over Redis streams, or in process when no Redis
// client is given. In process, events published before the router is running
// are dropped.
type Bus struct {
	closers   []func() error
	router    *message.Router
	eventBus  *cqrs.EventBus
	processor *cqrs.EventProcessor
	logger    *zap.Logger
}

func NewBus(logger *zap.Logger, rdb redis.UniversalClient, handlers ...cqrs.EventHandler) (*Bus, error) {
	wmLogger := NewZapLoggerAdapter(logger)

	var (
		publisher  message.Publisher
		subscriber func(handlerName string) (message.Subscriber, error)
		closers    []func() error
	)
	if rdb != nil {
		pub, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: rdb,
		}, wmLogger)
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}
		publisher = pub
		closers = append(closers, pub.Close)
		subscriber = func(handlerName string) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        rdb,
				ConsumerGroup: CONSUMER_GROUP_PREFIX + handlerName,
			}, wmLogger)
		}
	} else {
		pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, wmLogger)
		publisher = pubSub
		closers = append(closers, pubSub.Close)
		subscriber = func(string) (message.Subscriber, error) {
			return pubSub, nil
		}
	}

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)

	marshaler := cqrs.JSONMarshaler{
		GenerateName: cqrs.StructName,
	}

	eventBus, err := cqrs.NewEventBusWithConfig(
		publisher,
		cqrs.EventBusConfig{
			GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
				return params.EventName, nil
			},
			Marshaler: marshaler,
			Logger:    wmLogger,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create event bus: %w", err)
	}

	processor, err := cqrs.NewEventProcessorWithConfig(
		router,
		cqrs.EventProcessorConfig{
			GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
				return params.EventName, nil
			},
			SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
				return subscriber(params.HandlerName)
			},
			Marshaler: marshaler,
			Logger:    wmLogger,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create event processor: %w", err)
	}
	if len(handlers) > 0 {
		if err := processor.AddHandlers(handlers...); err != nil {
			return nil, fmt.Errorf("add event handlers: %w", err)
		}
	}

	return &Bus{
		closers:   closers,
		router:    router,
		eventBus:  eventBus,
		processor: processor,
		logger:    logger,
	}, nil
}

func (b *Bus) Publish(ctx context.Context, event any) error {
	return b.eventBus.Publish(ctx, event)
}

// Run blocks until ctx is cancelled or the router is closed.
func (b *Bus) Run(ctx context.Context) error {
	b.logger.Info("starting event router")
	return b.router.Run(ctx)
}

func (b *Bus) Running() chan struct{} {
	return b.router.Running()
}

func (b *Bus) Close() error {
	if err := b.router.Close(); err != nil {
		return err
	}
	for _, closeFn := range b.closers {
		if err := closeFn(); err != nil {
			return err
		}
	}
	return nil
}
