package client

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kod2ulz/tbc-ecomm/stores"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/kod2ulz/tbc-ecomm/client"

type GatewayClientOption func(*Client)

// WithConfig applies an env-loaded config. CertObject ("bucket/key") takes
// precedence over CertPath and is read through MinIO.
func WithConfig(conf *GatewayConfig) GatewayClientOption {
	return func(c *Client) {
		if conf == nil {
			return
		}
		c.conf = *conf
		if c.conf.Endpoint == "" {
			c.conf.Endpoint = DefaultEndpoint
		}
		if c.conf.Timeout <= 0 {
			c.conf.Timeout = DefaultTimeout
		}
		if conf.CertObject != "" {
			bucket, key, err := stores.ParseObjectURL(conf.CertObject)
			if err != nil {
				c.err = err
				return
			}
			store, err := stores.Minio(c.log.Entry)
			if err != nil {
				c.err = err
				return
			}
			c.cert = CertificateObject{Store: store, Bucket: bucket, Key: key}
		} else if conf.CertPath != "" {
			c.cert = CertificateFile(conf.CertPath)
		}
	}
}

func WithCertificateFile(path string) GatewayClientOption {
	return func(c *Client) {
		c.cert = CertificateFile(path)
	}
}

func WithCertificateBytes(data []byte) GatewayClientOption {
	return func(c *Client) {
		c.cert = CertificateBytes(append([]byte(nil), data...))
	}
}

func WithCertificateObject(store ObjectReader, bucket, key string) GatewayClientOption {
	return func(c *Client) {
		c.cert = CertificateObject{Store: store, Bucket: bucket, Key: key}
	}
}

func WithCertificateSource(source CertificateSource) GatewayClientOption {
	return func(c *Client) {
		c.cert = source
	}
}

func WithPassphrase(passphrase string) GatewayClientOption {
	return func(c *Client) {
		c.conf.CertPass = passphrase
	}
}

func WithClientIP(ip string) GatewayClientOption {
	return func(c *Client) {
		c.conf.ClientIP = ip
	}
}

func WithEndpoint(endpoint string) GatewayClientOption {
	return func(c *Client) {
		c.conf.Endpoint = endpoint
	}
}

func WithTimeout(timeout time.Duration) GatewayClientOption {
	return func(c *Client) {
		c.conf.Timeout = timeout
	}
}

func WithJournal(journal Journal) GatewayClientOption {
	return func(c *Client) {
		c.log.journal = journal
	}
}

func Gateway(ctx context.Context, log *logrus.Entry, opts ...GatewayClientOption) (out *Client, err error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	out = &Client{
		conf:   defaultConfig(),
		log:    &gatewayLogger{Entry: log.WithField("component", "tbc-gateway")},
		tracer: otel.Tracer(tracerName),
	}
	for i := range opts {
		opts[i](out)
	}
	if out.err != nil {
		return nil, errors.Wrap(out.err, "failed to apply gateway options")
	} else if out.cert == nil {
		return nil, errors.Errorf("gateway certificate source not configured")
	} else if err = validateEndpoint(out.conf.Endpoint); err != nil {
		return nil, err
	}
	out.log.WithField("certificate", out.cert.String()).WithField("endpoint", out.conf.Endpoint).Info("initialised tbc gateway client")
	return
}

// Client is the mutual-TLS transport to the merchant handler. Nothing on it
// changes after construction, so Send may be called concurrently.
type Client struct {
	conf   GatewayConfig
	cert   CertificateSource
	log    *gatewayLogger
	tracer trace.Tracer
	err    error
}

func (c *Client) Config() GatewayConfig {
	return c.conf
}

func (c *Client) ClientIP() string {
	return c.conf.ClientIP
}

// Send performs one POST of params. The certificate is read again on every
// call so a rotated bundle is picked up without rebuilding the client.
func (c *Client) Send(ctx context.Context, params Params) (out Response, err error) {
	call := c.log.Request(ctx, c.conf.Endpoint, c.conf.ClientIP, params)
	ctx, span := c.tracer.Start(ctx, "tbc.gateway.send", trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("tbc.command", params.Command()), attribute.String("tbc.request_id", call.RequestID.String())))
	defer span.End()

	defer func() {
		c.log.Response(ctx, call, out, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("http.status_code", out.StatusCode))
		}
	}()

	var httpClient *http.Client
	if httpClient, err = c.httpClient(ctx); err != nil {
		return
	}
	defer httpClient.CloseIdleConnections()

	var req *http.Request
	if req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.conf.Endpoint, strings.NewReader(params.Encode())); err != nil {
		return out, transportError(OpRequest, err, "failed to build request for %s", c.conf.Endpoint)
	}
	req.Header.Set("Content-Type", FormContentType)

	var res *http.Response
	if res, err = httpClient.Do(req); err != nil {
		return out, transportError(requestOp(err), err, "post to %s failed", c.conf.Endpoint)
	}
	defer res.Body.Close()

	var body []byte
	if body, err = io.ReadAll(res.Body); err != nil {
		return out, transportError(OpResponse, err, "failed to read response from %s", c.conf.Endpoint)
	} else if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return out, &GatewayError{StatusCode: res.StatusCode, Status: res.Status, Body: body}
	}
	return Response{StatusCode: res.StatusCode, Header: res.Header, Body: body}, nil
}

func (c *Client) tlsConfig(ctx context.Context) (out *tls.Config, err error) {
	var data []byte
	var pair tls.Certificate
	var roots *x509.CertPool
	if data, err = c.cert.Load(ctx); err != nil {
		return nil, transportError(OpReadCertificate, err, "certificate %s unavailable", c.cert)
	} else if pair, roots, err = decodeBundle(data, c.conf.CertPass); err != nil {
		return nil, transportError(OpDecodeCertificate, err, "certificate %s unusable", c.cert)
	}
	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		RootCAs:      roots,
		Certificates: []tls.Certificate{pair},
	}, nil
}

func (c *Client) httpClient(ctx context.Context) (out *http.Client, err error) {
	var conf *tls.Config
	if conf, err = c.tlsConfig(ctx); err != nil {
		return
	}
	return &http.Client{
		Timeout: c.conf.Timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			TLSClientConfig:     conf,
			TLSHandshakeTimeout: c.conf.Timeout,
			DisableKeepAlives:   true,
		},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, nil
}
