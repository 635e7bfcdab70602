package api

import (
	"context"

	"github.com/kod2ulz/tbc-ecomm/client"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type TbcApi interface {
	PaymentApi
	SubscriptionApi
}

// PaymentApi covers the SMS and DMS transaction lifecycle and the daily close.
type PaymentApi interface {
	StartCharge(context.Context, ChargeOptions) (client.Response, error)
	StartAuthorization(context.Context, ChargeOptions) (client.Response, error)
	Capture(context.Context, CaptureOptions) (client.Response, error)
	TransactionStatus(context.Context, StatusOptions) (client.Response, error)
	Reverse(context.Context, ReverseOptions) (client.Response, error)
	Refund(context.Context, RefundOptions) (client.Response, error)
	Credit(context.Context, CreditOptions) (client.Response, error)
	CloseDay(context.Context) (client.Response, error)
}

type SubscriptionApi interface {
	StartChargeWithSubscription(context.Context, SubscriptionOptions) (client.Response, error)
	StartAuthorizationWithSubscription(context.Context, SubscriptionOptions) (client.Response, error)
	RegisterSubscription(context.Context, RegisterSubscriptionOptions) (client.Response, error)
	ExecuteSubscriptionPayment(context.Context, SubscriptionPaymentOptions) (client.Response, error)
}

// Transport carries one command to the gateway. *client.Client is the
// production implementation.
type Transport interface {
	Send(ctx context.Context, params client.Params) (client.Response, error)
}

type TbcApiOption func(*tbc)

func WithGatewayConfig(conf *client.GatewayConfig) TbcApiOption {
	return func(p *tbc) {
		var gw *client.Client
		if gw, p.err = client.Gateway(p.ctx, p.log, client.WithConfig(conf)); p.err == nil {
			p.transport, p.clientIP = gw, gw.ClientIP()
		}
	}
}

func WithGatewayClient(gw *client.Client) TbcApiOption {
	return func(p *tbc) {
		p.transport, p.clientIP = gw, gw.ClientIP()
	}
}

// WithTransport plugs in any transport. clientIP is attached to the commands
// that carry client_ip_addr.
func WithTransport(transport Transport, clientIP string) TbcApiOption {
	return func(p *tbc) {
		p.transport, p.clientIP = transport, clientIP
	}
}

type tbc struct {
	transport Transport
	clientIP  string
	ctx       context.Context
	log       *logrus.Entry
	err       error
}

func Tbc(ctx context.Context, log *logrus.Entry, opts ...TbcApiOption) (out *tbc, err error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	out = &tbc{log: log, ctx: ctx}
	for i := range opts {
		opts[i](out)
	}
	if out.err != nil {
		return nil, errors.Wrap(out.err, "failed to initialise gateway client")
	} else if out.transport == nil {
		return nil, errors.Errorf("transport not initialised")
	}
	return
}

func (s *tbc) ClientIP() string {
	return s.clientIP
}
