package client_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"log"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgtype"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/youmark/pkcs8"

	"github.com/kod2ulz/tbc-ecomm/client"
	dbi "github.com/kod2ulz/tbc-ecomm/sql/db"
)

const merchantPath = "/ecomm2/MerchantHandler"

var serial int64

// merchantCert is a self-signed certificate usable as CA, server and client
// certificate at once, like the bundle the bank hands out.
type merchantCert struct {
	key  *ecdsa.PrivateKey
	der  []byte
	pool *x509.CertPool
}

func newMerchantCert(name string) merchantCert {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	Expect(err).To(BeNil())
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(atomic.AddInt64(&serial, 1)),
		Subject:               pkix.Name{CommonName: name, Organization: []string{"Merchant"}},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
		DNSNames:              []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	Expect(err).To(BeNil())
	cert, err := x509.ParseCertificate(der)
	Expect(err).To(BeNil())
	pool := x509.NewCertPool()
	pool.AddCert(cert)
	return merchantCert{key: key, der: der, pool: pool}
}

func (m merchantCert) pair() tls.Certificate {
	return tls.Certificate{Certificate: [][]byte{m.der}, PrivateKey: m.key}
}

func (m merchantCert) certBlock() *pem.Block {
	return &pem.Block{Type: client.CertificatePemType, Bytes: m.der}
}

func (m merchantCert) plainKey() *pem.Block {
	der, err := x509.MarshalECPrivateKey(m.key)
	Expect(err).To(BeNil())
	return &pem.Block{Type: client.EcPrivateKeyPemType, Bytes: der}
}

func (m merchantCert) legacyKey(passphrase string) *pem.Block {
	der, err := x509.MarshalECPrivateKey(m.key)
	Expect(err).To(BeNil())
	block, err := x509.EncryptPEMBlock(rand.Reader, client.EcPrivateKeyPemType, der, []byte(passphrase), x509.PEMCipherAES256)
	Expect(err).To(BeNil())
	return block
}

func (m merchantCert) pkcs8Key(passphrase string) *pem.Block {
	der, err := pkcs8.MarshalPrivateKey(m.key, []byte(passphrase), nil)
	Expect(err).To(BeNil())
	return &pem.Block{Type: client.EncryptedPrivateKeyPemType, Bytes: der}
}

func bundle(blocks ...*pem.Block) (out []byte) {
	for _, block := range blocks {
		out = append(out, pem.EncodeToMemory(block)...)
	}
	return
}

type received struct {
	method      string
	contentType string
	form        url.Values
}

// gatewayServer is a mutual-TLS stand-in for the merchant handler.
type gatewayServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []received
	status   int
	body     string
	location string
}

func newGatewayServer(serverCert merchantCert, trusted *x509.CertPool) *gatewayServer {
	gs := &gatewayServer{status: http.StatusOK, body: "TRANSACTION_ID: rIJ3gfRN4Hh1gFFmAytxNjTQ2Ug=\n"}
	gs.Server = httptest.NewUnstartedServer(http.HandlerFunc(gs.handle))
	gs.Server.Config.ErrorLog = log.New(io.Discard, "", 0)
	gs.Server.TLS = &tls.Config{
		Certificates: []tls.Certificate{serverCert.pair()},
		ClientAuth:   tls.RequireAndVerifyClientCert,
		ClientCAs:    trusted,
	}
	gs.Server.StartTLS()
	return gs
}

func (gs *gatewayServer) handle(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	gs.mu.Lock()
	gs.requests = append(gs.requests, received{method: r.Method, contentType: r.Header.Get("Content-Type"), form: r.PostForm})
	status, body, location := gs.status, gs.body, gs.location
	gs.mu.Unlock()
	if location != "" {
		w.Header().Set("Location", location)
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (gs *gatewayServer) respond(status int, body string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.status, gs.body = status, body
}

func (gs *gatewayServer) redirect(location string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.status, gs.location = http.StatusFound, location
}

func (gs *gatewayServer) calls() []received {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return append([]received(nil), gs.requests...)
}

func (gs *gatewayServer) endpoint() string {
	return gs.URL + merchantPath
}

type countingSource struct {
	client.CertificateSource
	loads int32
}

func (s *countingSource) Load(ctx context.Context) ([]byte, error) {
	atomic.AddInt32(&s.loads, 1)
	return s.CertificateSource.Load(ctx)
}

type fakeObjects struct {
	data map[string][]byte
	err  error
}

func (f fakeObjects) ReadObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data[bucket+"/"+key], nil
}

type fakeJournal struct {
	mu        sync.Mutex
	requests  []dbi.LogGatewayRequestParams
	responses []dbi.LogGatewayResponseParams
	err       error
}

func (j *fakeJournal) LogGatewayRequest(ctx context.Context, arg dbi.LogGatewayRequestParams) (dbi.GatewayCall, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.requests = append(j.requests, arg)
	if j.err != nil {
		return dbi.GatewayCall{}, j.err
	}
	return dbi.GatewayCall{
		ID:        int64(len(j.requests)),
		RequestID: arg.RequestID,
		Command:   arg.Command,
		ClientIp:  arg.ClientIp,
		Url:       arg.Url,
		Request:   arg.Request,
		CreatedAt: time.Now(),
	}, nil
}

func (j *fakeJournal) LogGatewayResponse(ctx context.Context, arg dbi.LogGatewayResponseParams) (dbi.GatewayCall, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.responses = append(j.responses, arg)
	if j.err != nil {
		return dbi.GatewayCall{}, j.err
	}
	return dbi.GatewayCall{RequestID: arg.RequestID, ResponseCode: arg.ResponseCode, Response: arg.Response, Error: arg.Error}, nil
}

func requestParams(arg dbi.LogGatewayRequestParams) (out map[string]string) {
	Expect(arg.Request.Status).To(Equal(pgtype.Present))
	Expect(arg.Request.AssignTo(&out)).To(Succeed())
	return
}

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}
