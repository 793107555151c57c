/* Copyright 2025 Medtrack Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/medtrack/medtrack/pkg/server/app"
	mw "github.com/medtrack/medtrack/pkg/server/middleware"
	"github.com/pkg/errors"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	APIRoutes   []Route
}

// NewAPIRoutes returns a new api routes
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	// scoped wraps handlers of the per-user collections
	scoped := func(h http.HandlerFunc) http.HandlerFunc {
		return mw.Auth(a, mw.UserScope(h))
	}

	return []Route{
		// v1
		{"POST", "/v1/sessions/anonymous", c.Sessions.CreateAnonymous, true},
		{"POST", "/v1/signup", c.Sessions.Signup, true},
		{"POST", "/v1/signin", c.Sessions.Signin, true},
		{"POST", "/v1/signout", c.Sessions.Signout, true},

		{"GET", "/v1/users/{userUUID}/medications", scoped(c.Medications.Index), true},
		{"POST", "/v1/users/{userUUID}/medications", scoped(c.Medications.Create), true},
		{"PATCH", "/v1/users/{userUUID}/medications/{medicationUUID}", scoped(c.Medications.Update), true},
		{"DELETE", "/v1/users/{userUUID}/medications/{medicationUUID}", scoped(c.Medications.Delete), true},

		{"GET", "/v1/users/{userUUID}/records", scoped(c.Records.Index), true},
		{"POST", "/v1/users/{userUUID}/records", scoped(c.Records.Create), true},
		{"DELETE", "/v1/users/{userUUID}/records/{recordUUID}", scoped(c.Records.Delete), true},

		{"GET", "/v1/users/{userUUID}/intakes", scoped(c.Intakes.Index), true},
		{"POST", "/v1/users/{userUUID}/intakes", scoped(c.Intakes.Create), true},
	}
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)

	apiRouter := router.PathPrefix("/api").Subrouter()
	registerRoutes(apiRouter, mw.APIMw, app, rc.APIRoutes)

	router.Handle("/health", mw.ApplyLimit(rc.Controllers.Health.Index, !app.DisableRateLimit)).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw.RespondNotFound(w)
	})

	return mw.Global(router), nil
}
