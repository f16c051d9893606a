package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.jwtAuth)

	mux := pat.New()

	// Requests
	mux.Post("/request", authMiddleware.ThenFunc(app.requestHandler.CreateRequest))
	mux.Get("/request/:id/dispatches", authMiddleware.ThenFunc(app.requestHandler.GetDispatches))

	// Responses
	mux.Post("/response", authMiddleware.ThenFunc(app.responseHandler.CreateResponse))
	mux.Post("/response/:id/accept", authMiddleware.ThenFunc(app.responseHandler.AcceptResponse))
	mux.Post("/response/:id/reject", authMiddleware.ThenFunc(app.responseHandler.RejectResponse))

	// Bookings
	mux.Post("/booking", authMiddleware.ThenFunc(app.bookingHandler.CreateBooking))

	// Push tokens
	mux.Post("/fcm/token", authMiddleware.ThenFunc(app.tokenHandler.SaveToken))

	// WebSocket authenticates via ?token=, not the Authorization header.
	mux.Get("/ws", standardMiddleware.ThenFunc(app.WebSocketHandler))

	return mux
}
