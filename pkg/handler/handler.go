// Package handler defines the request/response contract discovered by
// handlergen. A type that implements Handler[Req, Res] for concrete Req and
// Res is picked up by the generator and wired into the registry.
package handler

import "context"

// Handler processes a request of type Req and produces a response of type Res.
//
// Implementations must be concrete, exported (or module-internal) types with
// a usable constructor; the generator rejects everything else.
type Handler[Req any, Res any] interface {
	Handle(ctx context.Context, req Req) (Res, error)
}
