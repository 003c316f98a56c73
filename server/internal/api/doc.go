// Package api implements the HTTP REST API for golfcoach-server.
//
// New(deps) returns an http.Handler that serves:
//
//	GET   /api/v1/health                                   backend names and liveness
//	GET   /api/v1/users[?name=]                            roster, or one user by name
//	POST  /api/v1/users                                    signup (403 LIMIT_REACHED when full)
//	GET   /api/v1/users/{id}                               single user
//	PATCH /api/v1/users/{id}/level                         admin: change level
//	GET   /api/v1/users/{id}/dashboard                     radar, missions, usage, insight
//	GET   /api/v1/users/{id}/missions                      today's mission board
//	POST  /api/v1/users/{id}/missions/{mission}/complete   mark a mission done
//	GET   /api/v1/users/{id}/usage                         today's quota usage
//	POST  /api/v1/analyze                                  quota-gated swing analysis
//	POST  /api/v1/score                                    score caller-supplied metrics
//	POST  /api/v1/chat                                     keyword coach reply
//	GET   /api/v1/events[?limit=]                          admin: recent notifications
//
// All endpoints respond with Content-Type: application/json and return 405
// for unsupported methods. Errors use {"error": "..."}.
//
// JSON types are defined in types.go. No external HTTP framework is used.
package api
