// Package testutil provides a fake JSON-over-REST service for tests.
//
// Server wraps a gin engine in an httptest.Server, records every request it
// receives and offers helpers for the usual replies: a JSON payload, an
// echo of the request, or a "responseStatus" error envelope.
//
//	func TestHello(t *testing.T) {
//	    srv := testutil.NewServer(t)
//	    srv.Reply(http.MethodGet, "/hello", http.StatusOK, gin.H{"result": "Hello, World!"})
//
//	    client, _ := rest.New(rest.Config{BaseURL: srv.URL()})
//	    payload, err := client.Get(ctx, rest.NewMapRequest("name", "World"), rest.WithPath("/hello"))
//	    ...
//	    last, _ := srv.LastRequest()
//	}
package testutil
