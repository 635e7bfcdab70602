package api

import (
	"context"

	"github.com/kod2ulz/tbc-ecomm/client"
)

// StartCharge registers an SMS transaction: the amount is charged in one
// step. The response carries TRANSACTION_ID or error.
func (s *tbc) StartCharge(ctx context.Context, opts ChargeOptions) (client.Response, error) {
	return s.process(ctx, CommandSmsStart, opts.values())
}

// StartAuthorization registers a DMS authorization that blocks the amount
// until Capture. The response carries TRANSACTION_ID or error.
func (s *tbc) StartAuthorization(ctx context.Context, opts ChargeOptions) (client.Response, error) {
	return s.process(ctx, CommandDmsStart, opts.values())
}

// Capture charges a blocked DMS authorization.
// Response: RESULT (OK, FAILED), RESULT_CODE, BRN, APPROVAL_CODE, CARD_NUMBER.
func (s *tbc) Capture(ctx context.Context, opts CaptureOptions) (client.Response, error) {
	return s.process(ctx, CommandDmsCapture, opts.values())
}

// TransactionStatus asks the gateway for the current state of a transaction.
// Every call is a fresh round trip.
func (s *tbc) TransactionStatus(ctx context.Context, opts StatusOptions) (client.Response, error) {
	return s.process(ctx, CommandTransactionResult, opts.values())
}

// Reverse cancels all or part of a transaction.
// Response: RESULT (OK, REVERSED, FAILED), RESULT_CODE.
func (s *tbc) Reverse(ctx context.Context, opts ReverseOptions) (client.Response, error) {
	return s.process(ctx, CommandReverse, opts.values())
}

// Refund returns funds of a completed transaction.
// Response: RESULT (OK, FAILED), RESULT_CODE, REFUND_TRANS_ID.
func (s *tbc) Refund(ctx context.Context, opts RefundOptions) (client.Response, error) {
	return s.process(ctx, CommandRefund, opts.values())
}

// Credit pays out to the card of the referenced transaction.
// Response: RESULT (OK, FAILED), RESULT_CODE, REFUND_TRANS_ID.
func (s *tbc) Credit(ctx context.Context, opts CreditOptions) (client.Response, error) {
	return s.process(ctx, CommandCredit, opts.values())
}

// CloseDay closes the business day and must run once every 24 hours. Only
// successful SMS and captured DMS transactions are settled.
func (s *tbc) CloseDay(ctx context.Context) (client.Response, error) {
	return s.process(ctx, CommandCloseDay, nil)
}

func (s *tbc) StartChargeWithSubscription(ctx context.Context, opts SubscriptionOptions) (client.Response, error) {
	return s.process(ctx, CommandSmsStartSubscription, opts.values())
}

func (s *tbc) StartAuthorizationWithSubscription(ctx context.Context, opts SubscriptionOptions) (client.Response, error) {
	return s.process(ctx, CommandDmsStartSubscription, opts.values())
}

// RegisterSubscription stores the card for later billing without charging it.
func (s *tbc) RegisterSubscription(ctx context.Context, opts RegisterSubscriptionOptions) (client.Response, error) {
	return s.process(ctx, CommandSubscribe, opts.values())
}

// ExecuteSubscriptionPayment charges a stored subscription. The merchant
// calls it once per billing cycle.
func (s *tbc) ExecuteSubscriptionPayment(ctx context.Context, opts SubscriptionPaymentOptions) (client.Response, error) {
	return s.process(ctx, CommandExecuteSubscription, opts.values())
}

// process hands the assembled command to the transport and returns whatever
// came back untouched. Business outcomes (FAILED, DECLINED, error lines) are
// results, not errors.
func (s *tbc) process(ctx context.Context, cmd Command, values map[string]string) (out client.Response, err error) {
	params := buildParams(cmd, s.clientIP, values)
	s.log.WithField("command", string(cmd)).WithField("msgType", string(cmd.MsgType())).Debug("issuing gateway command")
	if out, err = s.transport.Send(ctx, params); err != nil {
		return client.Response{}, err
	}
	return
}
