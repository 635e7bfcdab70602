package db

import (
	"context"

	"github.com/jackc/pgx/v4/log/logrusadapter"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/kod2ulz/gostart/storage"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type SqlDB struct {
	*Queries
	Conn *pgxpool.Pool
	conf *pgxpool.Config
}

func InitSQL(ctx context.Context, log *logrus.Entry, conf *storage.Conf) (out *SqlDB, err error) {
	out = &SqlDB{}
	if out.conf, err = pgxpool.ParseConfig(conf.ConnectionString()); err != nil {
		return nil, errors.Wrap(err, "failed to parse journal database config")
	}
	out.conf.ConnConfig.Logger = logrusadapter.NewLogger(log)
	if out.Conn, err = pgxpool.ConnectConfig(ctx, out.conf); err != nil {
		return nil, errors.Wrap(err, "failed to connect to journal database")
	}
	out.Queries = New(out.Conn)
	return
}
