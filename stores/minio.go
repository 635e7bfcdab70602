package stores

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/kod2ulz/gostart/collections"
	"github.com/kod2ulz/gostart/utils"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	env              = utils.Env.Helper("MINIO_STORAGE")
	MINIO_USE_SSL    = env.Get("USE_SSL", "true").Bool()
	MINIO_ACCESS_KEY = env.Get("ACCESS_KEY", "invalid-minio-key").String()
	MINIO_SECRET_KEY = env.Get("SECRET_KEY", "invalid-minio-key").String()
	MINIO_ENDPOINT   = env.Get("ENDPOINT", "minio.example.dev").String()
	MINIO_TIMEOUT    = env.Get("TIMEOUT", "10s").Duration()
)

func Minio(log *logrus.Entry) (out *MinioClient, err error) {
	refreshConfig()
	var client *minio.Client
	if client, err = minio.New(MINIO_ENDPOINT, &minio.Options{
		Creds:  credentials.NewStaticV4(MINIO_ACCESS_KEY, MINIO_SECRET_KEY, ""),
		Secure: MINIO_USE_SSL,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to initialise minio client")
	}
	log.WithField("endpoint", MINIO_ENDPOINT).Info("initialised minio client")
	return &MinioClient{Client: client, log: log}, nil
}

func refreshConfig() {
	MINIO_USE_SSL = env.Get("USE_SSL", "true").Bool()
	MINIO_ACCESS_KEY = env.Get("ACCESS_KEY", "invalid-minio-key").String()
	MINIO_SECRET_KEY = env.Get("SECRET_KEY", "invalid-minio-key").String()
	MINIO_ENDPOINT = env.Get("ENDPOINT", "minio.example.dev").String()
	MINIO_TIMEOUT = env.Get("TIMEOUT", "10s").Duration()
}

type MinioClient struct {
	log *logrus.Entry
	*minio.Client
}

// ObjectReaderFunc expects you to handle the closing yourself
type ObjectReaderFunc func(int64, string, io.ReadCloser) error

// ReadObject loads a whole object into memory. The object handle is closed
// before returning.
func (c *MinioClient) ReadObject(ctx context.Context, bucket, key string) (out []byte, err error) {
	ctx, cancel := context.WithTimeout(ctx, MINIO_TIMEOUT)
	defer cancel()
	err = c.StreamObject(ctx, bucket, key, func(size int64, filename string, reader io.ReadCloser) error {
		defer reader.Close()
		buffer := bytes.NewBuffer(make([]byte, 0, size))
		if _, err := io.CopyN(buffer, reader, size); err != nil {
			return errors.Wrapf(err, "failed to read %s/%s", bucket, key)
		}
		out = buffer.Bytes()
		return nil
	})
	return
}

func (c *MinioClient) StreamObject(ctx context.Context, bucket, key string, out ObjectReaderFunc) (err error) {
	var reader *minio.Object
	var info minio.ObjectInfo
	if reader, err = c.GetObject(ctx, bucket, key, minio.GetObjectOptions{}); err != nil {
		return errors.Wrapf(err, "error fetching object %s from bucket %s", key, bucket)
	} else if reader == nil {
		return errors.Errorf("object %s/%s returned empty object from storage", bucket, key)
	}
	if info, err = reader.Stat(); err != nil {
		reader.Close()
		return errors.Wrapf(err, "failed to stat file retrieved from %s/%s", bucket, key)
	} else if info.Size == 0 {
		reader.Close()
		return errors.Errorf("object %s/%s returned empty object from storage", bucket, key)
	}
	c.log.WithField("object", bucket+"/"+key).WithField("size", info.Size).Debug("streaming object")
	var parts collections.List[string] = strings.Split(key, "/")
	return out(info.Size, parts[parts.Size()-1], reader)
}

// ParseObjectURL splits "bucket/path/to/key" into its bucket and key.
func ParseObjectURL(endpoint string) (bucket, key string, err error) {
	var parts collections.List[string]
	if endpoint = strings.Trim(endpoint, "/"); endpoint == "" || !strings.Contains(endpoint, "/") {
		return "", "", errors.Errorf("object url '%s' must be of the form bucket/key", endpoint)
	} else if parts = strings.Split(endpoint, "/"); parts.Size() < 2 {
		return "", "", errors.Errorf("object url '%s' must be of the form bucket/key", endpoint)
	}
	bucket, key = parts.First(), strings.Join(parts[1:], "/")
	if bucket == "" || key == "" {
		return "", "", errors.Errorf("object url '%s' has an empty bucket or key", endpoint)
	}
	return
}
