package client

import (
	"time"

	"github.com/kod2ulz/gostart/utils"
)

type GatewayConfig struct {
	Endpoint   string
	CertPath   string
	CertPass   string
	CertObject string
	ClientIP   string
	Timeout    time.Duration
}

func NewGatewayConfig(prefix ...string) *GatewayConfig {
	env := utils.Env.Helper(prefix...).OrDefault("TBC_CLIENT")
	return &GatewayConfig{
		Endpoint:   env.Get("ENDPOINT", DefaultEndpoint).String(),
		CertPath:   env.Get("CERT_PATH", "").String(),
		CertPass:   env.MustGet("CERT_PASS").String(),
		CertObject: env.Get("CERT_OBJECT", "").String(),
		ClientIP:   env.MustGet("IP").String(),
		Timeout:    env.Get("TIMEOUT", "30s").Duration(),
	}
}

func defaultConfig() GatewayConfig {
	return GatewayConfig{
		Endpoint: DefaultEndpoint,
		Timeout:  DefaultTimeout,
	}
}
