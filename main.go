package main

import (
	"github.com/joho/godotenv"
	"github.com/kod2ulz/gostart/app"
	"github.com/kod2ulz/gostart/storage"
	"github.com/kod2ulz/gostart/utils"
	"github.com/kod2ulz/tbc-ecomm/api"
	"github.com/kod2ulz/tbc-ecomm/client"
	"github.com/kod2ulz/tbc-ecomm/sql/db"
)

// Closes the merchant's business day. Schedule it once every 24 hours.
func main() {
	_ = godotenv.Load()
	a := app.Init()
	ctx, log := a.Ctx(), a.Log()

	opts := []client.GatewayClientOption{client.WithConfig(client.NewGatewayConfig())}
	if utils.Env.Helper("TBC_JOURNAL").Get("ENABLED", "false").Bool() {
		journal, err := db.InitSQL(ctx, log.Entry, storage.Config("TBC_DB"))
		utils.Error.Fail(log.Entry, err, "failed to connect to journal database")
		defer utils.ErrorFunc[utils.ShFunc1](a, journal.Conn.Close, "failed to close database connection")
		opts = append(opts, client.WithJournal(journal))
	}

	gateway, err := client.Gateway(ctx, log.Entry, opts...)
	utils.Error.Fail(log.Entry, err, "failed to initialise tbc gateway client")

	tbcAPI, err := api.Tbc(ctx, log.Entry, api.WithGatewayClient(gateway))
	utils.Error.Fail(log.Entry, err, "failed to initialise tbc api")

	res, err := tbcAPI.CloseDay(ctx)
	utils.Error.Fail(log.Entry, err, "end of business day request failed")

	fields := res.Fields()
	entry := log.WithField("result", api.ResultOf(fields)).WithField("resultCode", fields.Get(api.ResponseResultCode))
	if settlement, ok := api.SettlementOf(fields); ok {
		entry = entry.WithField("settlement", settlement)
	}
	if msg := fields.ErrorMessage(); msg != "" {
		entry.WithField("error", msg).Error("end of business day rejected")
		return
	}
	entry.Info("end of business day closed")
}
