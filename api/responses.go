package api

import (
	"strings"

	"github.com/kod2ulz/tbc-ecomm/client"
)

// Response field names.
const (
	ResponseTransactionID     = "TRANSACTION_ID"
	ResponseResult            = "RESULT"
	ResponseResultPS          = "RESULT_PS"
	ResponseResultCode        = "RESULT_CODE"
	Response3DSecure          = "3DSECURE"
	ResponseRRN               = "RRN"
	ResponseBRN               = "BRN"
	ResponseApprovalCode      = "APPROVAL_CODE"
	ResponseCardNumber        = "CARD_NUMBER"
	ResponseAAV               = "AAV"
	ResponseReccPmntID        = "RECC_PMNT_ID"
	ResponseReccPmntExpiry    = "RECC_PMNT_EXPIRY"
	ResponseMrchTransactionID = "MRCH_TRANSACTION_ID"
	ResponseRefundTransID     = "REFUND_TRANS_ID"
	ResponseCreditReversals   = "FLD_075"
	ResponseDebits            = "FLD_076"
	ResponseCreditReversalSum = "FLD_087"
	ResponseDebitSum          = "FLD_088"
	ResponseError             = "error"
	ResponseWarning           = "warning"
)

type Result string

const (
	ResultOK           Result = "OK"
	ResultFailed       Result = "FAILED"
	ResultCreated      Result = "CREATED"
	ResultPending      Result = "PENDING"
	ResultDeclined     Result = "DECLINED"
	ResultReversed     Result = "REVERSED"
	ResultAutoReversed Result = "AUTOREVERSED"
	ResultTimeout      Result = "TIMEOUT"
)

// PaymentServerResult is RESULT_PS, only present when the merchant is set up
// for ECOMM2 details.
type PaymentServerResult string

const (
	PaymentFinished  PaymentServerResult = "FINISHED"
	PaymentCancelled PaymentServerResult = "CANCELLED"
	PaymentReturned  PaymentServerResult = "RETURNED"
	PaymentActive    PaymentServerResult = "ACTIVE"
)

type SecureResult string

const (
	SecureAuthenticated   SecureResult = "AUTHENTICATED"
	SecureDeclined        SecureResult = "DECLINED"
	SecureNotParticipated SecureResult = "NOTPARTICIPATED"
	SecureNoRange         SecureResult = "NO_RANGE"
	SecureAttempted       SecureResult = "ATTEMPTED"
	SecureUnavailable     SecureResult = "UNAVAILABLE"
	SecureError           SecureResult = "ERROR"
	SecureSysError        SecureResult = "SYSERROR"
	SecureUnknownScheme   SecureResult = "UNKNOWNSCHEME"
)

func ResultOf(fields client.Fields) Result {
	return Result(fields.Get(ResponseResult))
}

func PaymentServerResultOf(fields client.Fields) PaymentServerResult {
	return PaymentServerResult(fields.Get(ResponseResultPS))
}

func SecureResultOf(fields client.Fields) SecureResult {
	return SecureResult(fields.Get(Response3DSecure))
}

func TransactionID(fields client.Fields) (string, bool) {
	id, ok := fields[ResponseTransactionID]
	return id, ok && id != ""
}

// Settlement holds the end-of-day counters. Values are kept as the gateway
// sent them.
type Settlement struct {
	CreditReversals     string `json:"creditReversals"`
	Debits              string `json:"debits"`
	CreditReversalTotal string `json:"creditReversalTotal"`
	DebitTotal          string `json:"debitTotal"`
}

// SettlementOf returns the counters, which the gateway only includes when
// RESULT_CODE begins with 5.
func SettlementOf(fields client.Fields) (out Settlement, ok bool) {
	if !strings.HasPrefix(fields.Get(ResponseResultCode), "5") {
		return
	}
	return Settlement{
		CreditReversals:     fields.Get(ResponseCreditReversals),
		Debits:              fields.Get(ResponseDebits),
		CreditReversalTotal: fields.Get(ResponseCreditReversalSum),
		DebitTotal:          fields.Get(ResponseDebitSum),
	}, true
}
