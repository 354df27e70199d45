// internal/github/transport.go
package github

import "net/http"

const mediaTypeGitHubJSON = "application/vnd.github+json"

// liveTransport stamps every outgoing request with the GitHub media type and
// asks intermediaries not to serve a cached response.
type liveTransport struct {
	base http.RoundTripper
}

func (t *liveTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", mediaTypeGitHubJSON)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	return t.base.RoundTrip(req)
}
