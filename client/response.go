package client

import (
	"net/http"
	"net/url"
	"strings"
)

const ParamCommand = "command"

// Params is the flat form the gateway expects. Every key is sent, empty
// values included.
type Params map[string]string

func (p Params) Command() string {
	return p[ParamCommand]
}

func (p Params) Encode() string {
	values := make(url.Values, len(p))
	for k, v := range p {
		values.Set(k, v)
	}
	return values.Encode()
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r Response) String() string {
	return string(r.Body)
}

// Fields reads the "KEY: value" lines of the body. The body itself is left
// untouched.
func (r Response) Fields() Fields {
	return ParseFields(r.Body)
}

type Fields map[string]string

func ParseFields(body []byte) (out Fields) {
	out = Fields{}
	for _, line := range strings.Split(string(body), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		} else if key = strings.TrimSpace(key); key == "" {
			continue
		}
		out[key] = strings.TrimSpace(value)
	}
	return
}

func (f Fields) Get(key string) string {
	return f[key]
}

func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

func (f Fields) ErrorMessage() string {
	return f["error"]
}

func (f Fields) WarningMessage() string {
	return f["warning"]
}
