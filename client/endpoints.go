package client

import (
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultEndpoint is the merchant handler of the TBC ECOMM payment server.
	DefaultEndpoint = "https://securepay.ufc.ge:18443/ecomm2/MerchantHandler"
	DefaultTimeout  = 30 * time.Second
	FormContentType = "application/x-www-form-urlencoded"
)

func validateEndpoint(endpoint string) (err error) {
	var u *url.URL
	if endpoint == "" {
		return errors.Errorf("gateway endpoint not set")
	} else if u, err = url.Parse(endpoint); err != nil {
		return errors.Wrapf(err, "invalid gateway endpoint %s", endpoint)
	} else if u.Scheme != "https" {
		return errors.Errorf("gateway endpoint %s must use https, got %s", endpoint, u.Scheme)
	} else if u.Host == "" {
		return errors.Errorf("gateway endpoint %s has no host", endpoint)
	}
	return
}
