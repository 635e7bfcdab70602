package client

import (
	"context"
	"crypto"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/youmark/pkcs8"
)

const (
	CertificatePemType         = "CERTIFICATE"
	RsaPrivateKeyPemType       = "RSA PRIVATE KEY"
	EcPrivateKeyPemType        = "EC PRIVATE KEY"
	Pkcs8PrivateKeyPemType     = "PRIVATE KEY"
	EncryptedPrivateKeyPemType = "ENCRYPTED PRIVATE KEY"
)

// CertificateSource yields the merchant PEM bundle. The bundle holds the
// client certificate, its private key and doubles as the CA that signed the
// gateway's self-signed certificate.
type CertificateSource interface {
	Load(ctx context.Context) ([]byte, error)
	String() string
}

// ObjectReader is satisfied by *stores.MinioClient.
type ObjectReader interface {
	ReadObject(ctx context.Context, bucket, key string) ([]byte, error)
}

type CertificateFile string

func (f CertificateFile) Load(ctx context.Context) (out []byte, err error) {
	var file *os.File
	if file, err = os.Open(string(f)); err != nil {
		return nil, errors.Wrapf(err, "failed to open certificate %s", string(f))
	}
	defer file.Close()
	if out, err = io.ReadAll(file); err != nil {
		return nil, errors.Wrapf(err, "failed to read certificate %s", string(f))
	}
	return
}

func (f CertificateFile) String() string {
	return "file:" + string(f)
}

type CertificateBytes []byte

func (b CertificateBytes) Load(ctx context.Context) ([]byte, error) {
	if len(b) == 0 {
		return nil, errors.Errorf("certificate bytes are empty")
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (b CertificateBytes) String() string {
	return fmt.Sprintf("bytes:%d", len(b))
}

type CertificateObject struct {
	Store  ObjectReader
	Bucket string
	Key    string
}

func (o CertificateObject) Load(ctx context.Context) (out []byte, err error) {
	if o.Store == nil {
		return nil, errors.Errorf("no object store for certificate %s/%s", o.Bucket, o.Key)
	} else if out, err = o.Store.ReadObject(ctx, o.Bucket, o.Key); err != nil {
		return nil, errors.Wrapf(err, "failed to read certificate object %s/%s", o.Bucket, o.Key)
	}
	return
}

func (o CertificateObject) String() string {
	return fmt.Sprintf("object:%s/%s", o.Bucket, o.Key)
}

// decodeBundle splits a PEM bundle into the client key pair and a pool
// pinned to every certificate the bundle carries.
func decodeBundle(data []byte, passphrase string) (out tls.Certificate, roots *x509.CertPool, err error) {
	var block, keyBlock *pem.Block
	roots = x509.NewCertPool()
	for rest := data; ; {
		if block, rest = pem.Decode(rest); block == nil {
			break
		}
		switch {
		case block.Type == CertificatePemType:
			var cert *x509.Certificate
			if cert, err = x509.ParseCertificate(block.Bytes); err != nil {
				return out, nil, errors.Wrapf(err, "unable to parse certificate %d in bundle", len(out.Certificate)+1)
			}
			roots.AddCert(cert)
			out.Certificate = append(out.Certificate, block.Bytes)
			if out.Leaf == nil {
				out.Leaf = cert
			}
		case strings.HasSuffix(block.Type, "PRIVATE KEY"):
			if keyBlock != nil {
				return out, nil, errors.Errorf("bundle contains more than one private key")
			}
			keyBlock = block
		}
	}
	if len(out.Certificate) == 0 {
		return out, nil, errors.Errorf("no %s block found in bundle", CertificatePemType)
	} else if keyBlock == nil {
		return out, nil, errors.Errorf("no private key found in bundle")
	} else if out.PrivateKey, err = decodePrivateKey(keyBlock, passphrase); err != nil {
		return out, nil, err
	} else if err = matchKey(out.Leaf, out.PrivateKey); err != nil {
		return out, nil, err
	}
	return
}

func decodePrivateKey(block *pem.Block, passphrase string) (out crypto.PrivateKey, err error) {
	der := block.Bytes
	switch {
	case block.Type == EncryptedPrivateKeyPemType:
		if out, err = pkcs8.ParsePKCS8PrivateKey(der, []byte(passphrase)); err != nil {
			return nil, errors.Wrapf(err, "unable to decrypt %s with the given passphrase", block.Type)
		}
		return
	case x509.IsEncryptedPEMBlock(block): // openssl "Proc-Type: 4,ENCRYPTED"
		if der, err = x509.DecryptPEMBlock(block, []byte(passphrase)); err != nil {
			return nil, errors.Wrapf(err, "unable to decrypt %s with the given passphrase", block.Type)
		}
	}
	return parsePrivateKey(block.Type, der)
}

func parsePrivateKey(kind string, der []byte) (out crypto.PrivateKey, err error) {
	if out, err = x509.ParsePKCS1PrivateKey(der); err == nil {
		return
	} else if out, err = x509.ParsePKCS8PrivateKey(der); err == nil {
		return
	} else if out, err = x509.ParseECPrivateKey(der); err == nil {
		return
	}
	return nil, errors.Wrapf(err, "unable to parse %s", kind)
}

func matchKey(leaf *x509.Certificate, key crypto.PrivateKey) error {
	signer, ok := key.(crypto.Signer)
	if !ok {
		return errors.Errorf("unsupported private key type %T", key)
	}
	pub, ok := leaf.PublicKey.(interface{ Equal(crypto.PublicKey) bool })
	if !ok {
		return errors.Errorf("unsupported certificate public key type %T", leaf.PublicKey)
	} else if !pub.Equal(signer.Public()) {
		return errors.Errorf("private key does not match certificate %s", leaf.Subject)
	}
	return nil
}
