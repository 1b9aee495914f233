// Package rest is a typed client for JSON-over-REST services that follow the
// request-DTO convention: each request type maps to a route, read verbs send
// the request as a query string, write verbs send it as a JSON body, and
// failures carry a standardized "responseStatus" envelope.
//
// A request is either a loosely-typed map or a typed value:
//
//	client, err := rest.New(rest.Config{BaseURL: "https://api.example.com"})
//
//	// Untyped: GET /hello?name=World
//	payload, err := client.Get(ctx, rest.NewMapRequest("name", "World"), rest.WithPath("/hello"))
//
//	// Typed: POST /create-user, route inferred from the type name
//	user, err := rest.Post[User](ctx, client, rest.Typed(CreateUserRequest{Name: "Ann"}))
//
// Routes resolve in this order: an explicit WithPath, a route registered for
// the request's type (Routes, RegisterRoute), the request's own Route(), the
// hyphenated type name (RouteName), and finally /json/reply/<first-key> for
// untyped maps.
//
// Every failure is one of four kinds: *RequestError (caller misuse),
// *TransportError (no HTTP exchange), *ServiceError (non-2xx status) and
// *DecodeError (unparseable payload). None is retried by this package;
// retries belong to the httpclient transport.
//
// Client configuration may be changed through its setters while dispatches
// are in flight. Each dispatch works on a snapshot taken when it starts.
package rest
