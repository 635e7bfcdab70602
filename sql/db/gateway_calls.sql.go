package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
)

const logGatewayRequest = `-- name: LogGatewayRequest :one
INSERT INTO gateway_calls (request_id, command, client_ip, url, request)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, request_id, command, client_ip, url, request, response_code, response, error, created_at, responded_at
`

type LogGatewayRequestParams struct {
	RequestID uuid.UUID    `json:"request_id"`
	Command   string       `json:"command"`
	ClientIp  string       `json:"client_ip"`
	Url       string       `json:"url"`
	Request   pgtype.JSONB `json:"request"`
}

func (q *Queries) LogGatewayRequest(ctx context.Context, arg LogGatewayRequestParams) (GatewayCall, error) {
	row := q.db.QueryRow(ctx, logGatewayRequest,
		arg.RequestID,
		arg.Command,
		arg.ClientIp,
		arg.Url,
		arg.Request,
	)
	var i GatewayCall
	err := row.Scan(
		&i.ID,
		&i.RequestID,
		&i.Command,
		&i.ClientIp,
		&i.Url,
		&i.Request,
		&i.ResponseCode,
		&i.Response,
		&i.Error,
		&i.CreatedAt,
		&i.RespondedAt,
	)
	return i, err
}

const logGatewayResponse = `-- name: LogGatewayResponse :one
UPDATE gateway_calls
SET response_code = $3, response = $4, error = $5, responded_at = now()
WHERE id = $1 AND request_id = $2
RETURNING id, request_id, command, client_ip, url, request, response_code, response, error, created_at, responded_at
`

type LogGatewayResponseParams struct {
	ID           int64       `json:"id"`
	RequestID    uuid.UUID   `json:"request_id"`
	ResponseCode pgtype.Int4 `json:"response_code"`
	Response     pgtype.Text `json:"response"`
	Error        pgtype.Text `json:"error"`
}

func (q *Queries) LogGatewayResponse(ctx context.Context, arg LogGatewayResponseParams) (GatewayCall, error) {
	row := q.db.QueryRow(ctx, logGatewayResponse,
		arg.ID,
		arg.RequestID,
		arg.ResponseCode,
		arg.Response,
		arg.Error,
	)
	var i GatewayCall
	err := row.Scan(
		&i.ID,
		&i.RequestID,
		&i.Command,
		&i.ClientIp,
		&i.Url,
		&i.Request,
		&i.ResponseCode,
		&i.Response,
		&i.Error,
		&i.CreatedAt,
		&i.RespondedAt,
	)
	return i, err
}
