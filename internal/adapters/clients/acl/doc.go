// Package acl is the anti-corruption layer between the remote quote source
// and the domain.
//
// The remote source speaks its own model: a collection of posts whose
// "title" field is the only thing the application cares about, and which
// accepts arbitrary JSON on POST. Nothing from that model leaves this
// package. [RemoteQuoteClient] translates posts into [domain.Quote] values
// filed under [domain.ServerCategory] and reports failures as
// [domain.FetchError] or [domain.SubmitError], whose causes are the
// transport errors produced by [MapHTTPError].
//
// # Package Components
//
//   - [RemoteQuoteClient]: implements ports.RemoteQuoteGateway and ports.HealthChecker
//   - [BaseAdapter]: status checking and error mapping over a clients.Client
//   - [MapHTTPError]: HTTP status and client failures to domain errors
//   - [DecodeResponse], [TranslateSlice]: decoding and translation helpers
package acl
