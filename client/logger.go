package client

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/kod2ulz/gostart/api"
	dbi "github.com/kod2ulz/tbc-ecomm/sql/db"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Journal records gateway round trips. It is write-only: nothing in the
// client reads it back. *db.SqlDB satisfies it.
type Journal interface {
	LogGatewayRequest(ctx context.Context, arg dbi.LogGatewayRequestParams) (dbi.GatewayCall, error)
	LogGatewayResponse(ctx context.Context, arg dbi.LogGatewayResponseParams) (dbi.GatewayCall, error)
}

type gatewayLogger struct {
	*logrus.Entry
	journal Journal
}

// getRequestID reuses the caller's request id when the context carries one.
// A gin handler context gets the id stored on it so later calls made while
// serving the same request share it.
func (l *gatewayLogger) getRequestID(ctx context.Context) (out uuid.UUID) {
	var ok bool
	var err error
	if val := ctx.Value(api.RequestID); val != nil {
		if out, ok = val.(uuid.UUID); ok {
			return
		} else if out, err = uuid.Parse(fmt.Sprint(val)); err == nil {
			return
		}
	}
	out = uuid.New()
	if gc, ok := ctx.(*gin.Context); ok {
		gc.Set(api.RequestID, out)
	}
	return
}

func (l *gatewayLogger) Request(ctx context.Context, url, clientIP string, params Params) (call dbi.GatewayCall) {
	call.RequestID = l.getRequestID(ctx)
	call.Command = params.Command()
	log := l.WithField("requestId", call.RequestID).WithField("command", call.Command)
	log.WithField("fields", len(params)).Debug("sending gateway request")
	if l.journal == nil {
		return
	}
	var request pgtype.JSONB
	if err := request.Set(params); err != nil {
		log.WithError(err).Error("failed to encode gateway request for journal")
		return
	}
	if saved, err := l.journal.LogGatewayRequest(ctx, dbi.LogGatewayRequestParams{
		RequestID: call.RequestID,
		Command:   call.Command,
		ClientIp:  clientIP,
		Url:       url,
		Request:   request,
	}); err != nil {
		log.WithError(err).Error("failed to save gateway request")
	} else {
		call = saved
	}
	return
}

func (l *gatewayLogger) Response(ctx context.Context, call dbi.GatewayCall, res Response, failure error) {
	log := l.WithField("requestId", call.RequestID).WithField("command", call.Command)
	if failure != nil {
		log.WithError(failure).Warn("gateway request failed")
	} else {
		log.WithField("status", res.StatusCode).Debug("gateway responded")
	}
	if l.journal == nil || call.ID == 0 {
		return
	}
	arg := dbi.LogGatewayResponseParams{
		ID:           call.ID,
		RequestID:    call.RequestID,
		ResponseCode: pgtype.Int4{Status: pgtype.Null},
		Response:     pgtype.Text{Status: pgtype.Null},
		Error:        pgtype.Text{Status: pgtype.Null},
	}
	var rejected *GatewayError
	if errors.As(failure, &rejected) {
		res = Response{StatusCode: rejected.StatusCode, Body: rejected.Body}
	}
	if res.StatusCode != 0 {
		arg.ResponseCode = pgtype.Int4{Int: int32(res.StatusCode), Status: pgtype.Present}
	}
	if res.Body != nil {
		arg.Response = pgtype.Text{String: string(res.Body), Status: pgtype.Present}
	}
	if failure != nil {
		arg.Error = pgtype.Text{String: failure.Error(), Status: pgtype.Present}
	}
	if _, err := l.journal.LogGatewayResponse(ctx, arg); err != nil {
		log.WithError(err).Error("failed to save gateway response")
	}
}
