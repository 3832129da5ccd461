// Package pokeapi provides an HTTP client for the PokeAPI v2 REST service.
//
// # Overview
//
// The client maps four read-only endpoints to typed records:
//
//   - GET /pokemon?limit=&offset=   -> ListPage (name + resource URL per entry)
//   - GET /pokemon/{idOrName}       -> Pokemon
//   - GET /pokemon-species/{idOrName} -> Species
//   - GET /type                     -> TypeList
//
// GET /type/{name} is also available through FetchType; the headless API
// serves it as /api/types/{name}.
//
// Every call issues exactly one request. Nothing is cached and nothing is
// retried; calling twice fetches twice.
//
// # Identifiers
//
// List entries carry no numeric ID. ExtractID derives it from the resource
// URL, which must end in "/{id}/". Anything else is a *ParseError.
//
// # Error Handling
//
// All request failures are returned as *TransportError: network errors,
// the per-request timeout (10s by default), non-2xx statuses and bodies that
// fail to decode. IsNotFound distinguishes a 404. Failures are logged at warn
// level before being returned. Arguments rejected before any request is sent
// (negative limit or offset, a blank id, an id containing "/") are also
// *TransportError, with an empty URL and no status code.
//
// # Usage Example
//
//	client, err := pokeapi.NewClient("", pokeapi.WithRateLimit(20))
//	if err != nil {
//		return err
//	}
//	page, err := client.FetchList(ctx, 150, 0)
//	if err != nil {
//		return err
//	}
//	id, err := pokeapi.ExtractID(page.Results[0].URL)
package pokeapi
