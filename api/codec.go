// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package api

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
)

// codec accepts camelCase method names (bridge.lockAT) and resolves them to
// the exported service methods (Service.LockAT).
type codec struct {
	*json2.Codec
}

func newCodec() *codec {
	return &codec{Codec: json2.NewCodec()}
}

func (c *codec) NewRequest(r *http.Request) rpc.CodecRequest {
	return &codecRequest{CodecRequest: c.Codec.NewRequest(r)}
}

type codecRequest struct {
	rpc.CodecRequest
}

func (r *codecRequest) Method() (string, error) {
	method, err := r.CodecRequest.Method()
	if err != nil {
		return method, err
	}
	service, name, found := strings.Cut(method, ".")
	if !found || name == "" {
		return method, nil
	}
	first := []rune(name)
	first[0] = unicode.ToUpper(first[0])
	return service + "." + string(first), nil
}
