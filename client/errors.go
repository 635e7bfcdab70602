package client

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const (
	OpReadCertificate   = "read certificate"
	OpDecodeCertificate = "decode certificate"
	OpHandshake         = "tls handshake"
	OpRequest           = "request"
	OpResponse          = "read response"
)

// TransportError means the gateway was never heard from: the certificate
// could not be used, the TLS handshake failed or the network call failed.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("tbc transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Cause() error { return e.Err }

// GatewayError means the HTTP exchange completed but the server refused the
// request outright (non-2xx status). Business outcomes such as FAILED or an
// "error:" line arrive with status 200 and are not errors.
type GatewayError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("tbc gateway rejected request status=%d body=%s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

func IsGatewayError(err error) bool {
	var target *GatewayError
	return errors.As(err, &target)
}

func transportError(op string, err error, message string, args ...interface{}) *TransportError {
	return &TransportError{Op: op, Err: errors.Wrapf(err, message, args...)}
}

func requestOp(err error) string {
	var alert tls.AlertError
	var verify *tls.CertificateVerificationError
	var authority x509.UnknownAuthorityError
	var hostname x509.HostnameError
	var invalid x509.CertificateInvalidError
	switch {
	case errors.As(err, &alert), errors.As(err, &verify), errors.As(err, &authority),
		errors.As(err, &hostname), errors.As(err, &invalid):
		return OpHandshake
	}
	return OpRequest
}
