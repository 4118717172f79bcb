// Package param binds request parameters.
package param

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/gorilla/schema"
	"github.com/spf13/cast"
)

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("json")
	d.IgnoreUnknownKeys(true)
	return d
}()

// String url param as string
func String(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// Int64 url param as int64
func Int64(r *http.Request, key string) int64 {
	return cast.ToInt64(chi.URLParam(r, key))
}

// Binding binds the request into v: the json body for requests that
// carry one, the query string otherwise.
func Binding(r *http.Request, v interface{}) error {
	if r.Body != nil && r.ContentLength != 0 {
		return json.NewDecoder(r.Body).Decode(v)
	}

	return queryDecoder.Decode(v, r.URL.Query())
}
