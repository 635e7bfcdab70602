package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
)

type GatewayCall struct {
	ID           int64              `json:"id"`
	RequestID    uuid.UUID          `json:"request_id"`
	Command      string             `json:"command"`
	ClientIp     string             `json:"client_ip"`
	Url          string             `json:"url"`
	Request      pgtype.JSONB       `json:"request"`
	ResponseCode pgtype.Int4        `json:"response_code"`
	Response     pgtype.Text        `json:"response"`
	Error        pgtype.Text        `json:"error"`
	CreatedAt    time.Time          `json:"created_at"`
	RespondedAt  pgtype.Timestamptz `json:"responded_at"`
}
