package api

import "strconv"

// SuspectedFraudFlag is what the gateway expects in suspected_fraud. A
// reversal flagged this way must be a full reversal.
const SuspectedFraudFlag = "yes"

// ChargeOptions registers an SMS charge or a DMS authorization.
// Lengths are the gateway's limits; the client does not enforce them.
type ChargeOptions struct {
	// Amount in minor units, up to 12 digits (100 = 1 GEL). Zero is sent empty.
	Amount int64
	// Currency is the ISO 4217 numeric code, e.g. "981" for GEL.
	Currency string
	// Description up to 125 characters.
	Description string
	// Language of the card page, up to 32 characters (EN, GE).
	Language string
	// Biller is shown on the cardholder statement, up to 99 latin characters.
	Biller string
}

func (o ChargeOptions) values() map[string]string {
	return map[string]string{
		FieldAmount:      formatAmount(o.Amount),
		FieldCurrency:    o.Currency,
		FieldDescription: o.Description,
		FieldLanguage:    o.Language,
		FieldBiller:      o.Biller,
	}
}

type CaptureOptions struct {
	TransID     string
	Amount      int64
	Currency    string
	Description string
	Language    string
}

func (o CaptureOptions) values() map[string]string {
	return map[string]string{
		FieldTransID:     o.TransID,
		FieldAmount:      formatAmount(o.Amount),
		FieldCurrency:    o.Currency,
		FieldDescription: o.Description,
		FieldLanguage:    o.Language,
	}
}

type StatusOptions struct {
	TransID string
}

func (o StatusOptions) values() map[string]string {
	return map[string]string{FieldTransID: o.TransID}
}

// ReverseOptions with a zero Amount reverses the full amount. DMS
// authorizations can only be reversed in full.
type ReverseOptions struct {
	TransID        string
	Amount         int64
	SuspectedFraud bool
}

func (o ReverseOptions) values() map[string]string {
	out := map[string]string{
		FieldTransID:        o.TransID,
		FieldAmount:         formatAmount(o.Amount),
		FieldSuspectedFraud: "",
	}
	if o.SuspectedFraud {
		out[FieldSuspectedFraud] = SuspectedFraudFlag
	}
	return out
}

// RefundOptions with a zero Amount refunds the full amount.
type RefundOptions struct {
	TransID string
	Amount  int64
}

func (o RefundOptions) values() map[string]string {
	return map[string]string{
		FieldTransID: o.TransID,
		FieldAmount:  formatAmount(o.Amount),
	}
}

type CreditOptions struct {
	TransID string
	Amount  int64
}

func (o CreditOptions) values() map[string]string {
	return map[string]string{
		FieldTransID: o.TransID,
		FieldAmount:  formatAmount(o.Amount),
	}
}

// SubscriptionOptions registers a recurring payment together with its first
// charge (SMS) or authorization (DMS).
type SubscriptionOptions struct {
	Amount      int64
	Currency    string
	Description string
	Language    string
	// BillerClientID is chosen by the merchant and identifies the subscriber
	// on later ExecuteSubscriptionPayment calls.
	BillerClientID string
	// PerspayeeExpiry is the subscription expiry, four digits (e.g. "0822").
	PerspayeeExpiry string
}

func (o SubscriptionOptions) values() map[string]string {
	return map[string]string{
		FieldAmount:          formatAmount(o.Amount),
		FieldCurrency:        o.Currency,
		FieldDescription:     o.Description,
		FieldLanguage:        o.Language,
		FieldBillerClientID:  o.BillerClientID,
		FieldPerspayeeExpiry: o.PerspayeeExpiry,
	}
}

type RegisterSubscriptionOptions struct {
	Currency        string
	Description     string
	Language        string
	BillerClientID  string
	PerspayeeExpiry string
}

func (o RegisterSubscriptionOptions) values() map[string]string {
	return map[string]string{
		FieldCurrency:        o.Currency,
		FieldDescription:     o.Description,
		FieldLanguage:        o.Language,
		FieldBillerClientID:  o.BillerClientID,
		FieldPerspayeeExpiry: o.PerspayeeExpiry,
	}
}

type SubscriptionPaymentOptions struct {
	Amount         int64
	Currency       string
	Description    string
	BillerClientID string
}

func (o SubscriptionPaymentOptions) values() map[string]string {
	return map[string]string{
		FieldAmount:         formatAmount(o.Amount),
		FieldCurrency:       o.Currency,
		FieldDescription:    o.Description,
		FieldBillerClientID: o.BillerClientID,
	}
}

func formatAmount(amount int64) string {
	if amount == 0 {
		return ""
	}
	return strconv.FormatInt(amount, 10)
}
