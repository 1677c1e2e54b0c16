package webauth

import "net/http"

// CookieJar abstracts reading and writing client cookies so the service
// never touches the request or response writer directly.
type CookieJar interface {
	// Set queues a cookie to be sent to the client.
	Set(cookie *http.Cookie)

	// Get returns the named cookie presented by the client, or
	// http.ErrNoCookie if absent.
	Get(name string) (*http.Cookie, error)
}

// HTTPCookieJar is a CookieJar bound to one request/response pair.
type HTTPCookieJar struct {
	w http.ResponseWriter
	r *http.Request
}

func NewHTTPCookieJar(w http.ResponseWriter, r *http.Request) *HTTPCookieJar {
	return &HTTPCookieJar{w: w, r: r}
}

func (j *HTTPCookieJar) Set(cookie *http.Cookie) {
	http.SetCookie(j.w, cookie)
}

func (j *HTTPCookieJar) Get(name string) (*http.Cookie, error) {
	return j.r.Cookie(name)
}
