package api

import (
	"sort"

	"github.com/kod2ulz/tbc-ecomm/client"
)

type Command string

const (
	CommandSmsStart             Command = "v"
	CommandDmsStart             Command = "a"
	CommandDmsCapture           Command = "t"
	CommandTransactionResult    Command = "c"
	CommandReverse              Command = "r"
	CommandRefund               Command = "k"
	CommandCredit               Command = "g"
	CommandCloseDay             Command = "b"
	CommandSmsStartSubscription Command = "z"
	CommandDmsStartSubscription Command = "d"
	CommandSubscribe            Command = "p"
	CommandExecuteSubscription  Command = "e"
)

type MsgType string

const (
	MsgTypeSms  MsgType = "SMS"
	MsgTypeDms  MsgType = "DMS"
	MsgTypeAuth MsgType = "AUTH"
)

// Request field names as the merchant handler spells them.
const (
	FieldCommand         = client.ParamCommand
	FieldClientIP        = "client_ip_addr"
	FieldAmount          = "amount"
	FieldCurrency        = "currency"
	FieldDescription     = "description"
	FieldLanguage        = "language"
	FieldBiller          = "biller"
	FieldTransID         = "trans_id"
	FieldSuspectedFraud  = "suspected_fraud"
	FieldBillerClientID  = "biller_client_id"
	FieldPerspayeeExpiry = "perspayee_expiry"
	FieldPerspayeeGen    = "perspayee_gen"
	FieldMsgType         = "msg_type"
)

// template is the complete field set of one command. Nothing outside it is
// ever sent and everything in it always is.
type template struct {
	msgType  MsgType
	identity bool
	fields   []string
	fixed    map[string]string
}

var (
	startFields               = []string{FieldAmount, FieldCurrency, FieldDescription, FieldLanguage, FieldBiller}
	captureFields             = []string{FieldTransID, FieldAmount, FieldCurrency, FieldDescription, FieldLanguage}
	subscriptionFields        = []string{FieldAmount, FieldCurrency, FieldDescription, FieldLanguage, FieldBillerClientID, FieldPerspayeeExpiry}
	subscribeFields           = []string{FieldCurrency, FieldDescription, FieldLanguage, FieldBillerClientID, FieldPerspayeeExpiry}
	executeSubscriptionFields = []string{FieldAmount, FieldCurrency, FieldDescription, FieldBillerClientID}
	subscriptionFixed         = map[string]string{FieldPerspayeeGen: "1"}
)

var commands = map[Command]template{
	CommandSmsStart:             {msgType: MsgTypeSms, identity: true, fields: startFields},
	CommandDmsStart:             {msgType: MsgTypeDms, identity: true, fields: startFields},
	CommandDmsCapture:           {msgType: MsgTypeDms, identity: true, fields: captureFields},
	CommandTransactionResult:    {identity: true, fields: []string{FieldTransID}},
	CommandReverse:              {fields: []string{FieldTransID, FieldAmount, FieldSuspectedFraud}},
	CommandRefund:               {fields: []string{FieldTransID, FieldAmount}},
	CommandCredit:               {fields: []string{FieldTransID, FieldAmount}},
	CommandCloseDay:             {},
	CommandSmsStartSubscription: {msgType: MsgTypeSms, identity: true, fields: subscriptionFields, fixed: subscriptionFixed},
	CommandDmsStartSubscription: {msgType: MsgTypeDms, identity: true, fields: subscriptionFields, fixed: subscriptionFixed},
	CommandSubscribe:            {msgType: MsgTypeAuth, identity: true, fields: subscribeFields, fixed: subscriptionFixed},
	CommandExecuteSubscription:  {identity: true, fields: executeSubscriptionFields},
}

func Commands() (out []Command) {
	for cmd := range commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return
}

func (c Command) Known() bool {
	_, ok := commands[c]
	return ok
}

// Fields lists every key a request for c carries, sorted.
func (c Command) Fields() (out []string) {
	tmpl, ok := commands[c]
	if !ok {
		return nil
	}
	out = append(out, FieldCommand)
	if tmpl.identity {
		out = append(out, FieldClientIP)
	}
	if tmpl.msgType != "" {
		out = append(out, FieldMsgType)
	}
	out = append(out, tmpl.fields...)
	for k := range tmpl.fixed {
		out = append(out, k)
	}
	sort.Strings(out)
	return
}

func (c Command) MsgType() MsgType {
	return commands[c].msgType
}

func buildParams(cmd Command, clientIP string, values map[string]string) client.Params {
	tmpl := commands[cmd]
	out := client.Params{FieldCommand: string(cmd)}
	if tmpl.identity {
		out[FieldClientIP] = clientIP
	}
	if tmpl.msgType != "" {
		out[FieldMsgType] = string(tmpl.msgType)
	}
	for _, field := range tmpl.fields {
		out[field] = values[field]
	}
	for field, value := range tmpl.fixed {
		out[field] = value
	}
	return out
}
