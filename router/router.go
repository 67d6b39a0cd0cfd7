package router

import (
	"net/http"

	_ "github.com/Mareeswari30/Smart-Banking/docs"
	"github.com/Mareeswari30/Smart-Banking/handler"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Middleware func(http.Handler) http.Handler

// Middlewares are the per-route guards. Auth is required; nil Admin or
// LoginLimit leaves those routes unguarded.
type Middlewares struct {
	Auth       Middleware
	Admin      Middleware
	LoginLimit Middleware
}

func apply(h http.Handler, mw Middleware) http.Handler {
	if mw == nil {
		return h
	}
	return mw(h)
}

func NewRouter(users *handler.UserHandler, accounts *handler.AccountHandler, kyc *handler.KYCHandler, mw Middlewares) http.Handler {
	if mw.Auth == nil {
		panic("router: auth middleware is required")
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", handler.Root)
	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	mux.Handle("POST /register", handler.ErrorHandlingMiddleware(users.Register))
	mux.Handle("POST /login", apply(handler.ErrorHandlingMiddleware(users.Login), mw.LoginLimit))

	mux.Handle("POST /account", apply(handler.ErrorHandlingMiddleware(accounts.CreateAccount), mw.Auth))
	mux.Handle("GET /dashboard/{userId}", apply(handler.ErrorHandlingMiddleware(accounts.Dashboard), mw.Auth))

	mux.Handle("POST /verify-kyc/{userId}", apply(handler.ErrorHandlingMiddleware(kyc.VerifyKYC), mw.Admin))

	return handler.RequestID(handler.AccessLog(handler.Recover(mux)))
}
