// Package gateway provides the HTTP client for the procurement service.
//
// # Overview
//
// Every remote collection the console touches (tenders, contracts,
// purchase orders, invoices, payments, milestones, items) is reached through
// a single Client. Records are plain structs mirroring the service's JSON.
//
//	client, err := gateway.NewClient("127.0.0.1:8000", gateway.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	tenders, err := client.FetchTenders(ctx)
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation
//   - Set Accept: application/json and a User-Agent
//   - Carry a fresh X-Request-ID of the form req_<uuid>
//   - Share the client timeout (10 seconds unless WithTimeout is given)
//
// Upload sends a multipart form with a single "file" field.
//
// # Error Handling
//
// Responses with status >= 400 become *APIError carrying the status, the
// request path and the service's "detail" message. Use errors.As to inspect
// it. Network and decoding failures are wrapped with %w. The client never
// retries.
//
// # Testing
//
// Service is the interface the rest of the console depends on; tests either
// fake it or point a real Client at an httptest server running mockapi.
package gateway
