package services

import (
	"context"

	"github.com/bionicotaku/lingo-services-hello/internal/models/vo"

	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const (
	// GreetingPrefix precedes the caller's name in every greeting.
	GreetingPrefix = "Olá, "
	// GreetingSuffix follows the caller's name in every greeting.
	GreetingSuffix = "! Bem-vindo à API EJB."

	meterName            = "github.com/bionicotaku/lingo-services-hello/services"
	greetingsCounterName = "hello_greetings_total"
)

// FormatGreeting returns the greeting for name. The name is used verbatim.
func FormatGreeting(name string) string {
	return GreetingPrefix + name + GreetingSuffix
}

// GreeterUsecase exposes FormatGreeting to the transport layer.
// It holds no per-caller state and is safe for concurrent use.
type GreeterUsecase struct {
	log       *log.Helper
	greetings metric.Int64Counter
}

// NewGreeterUsecase constructs a Greeter usecase that counts greetings on mp.
// A nil mp disables counting.
func NewGreeterUsecase(logger log.Logger, mp metric.MeterProvider) *GreeterUsecase {
	helper := log.NewHelper(logger)
	if mp == nil {
		mp = noop.NewMeterProvider()
	}
	counter, err := mp.Meter(meterName).Int64Counter(
		greetingsCounterName,
		metric.WithDescription("Number of greetings produced."),
	)
	if err != nil {
		helper.Warnf("create greetings counter: %v", err)
	}
	return &GreeterUsecase{log: helper, greetings: counter}
}

// SayHello greets name. It never fails; the error return keeps the usecase
// signature uniform with the handlers that call it.
func (uc *GreeterUsecase) SayHello(ctx context.Context, name string) (*vo.Greeting, error) {
	message := FormatGreeting(name)
	if uc.greetings != nil {
		uc.greetings.Add(ctx, 1)
	}
	uc.log.WithContext(ctx).Debugf("SayHello: %q", name)
	return &vo.Greeting{Name: name, Message: message}, nil
}
