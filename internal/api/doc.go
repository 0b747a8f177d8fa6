// ABOUTME: Package documentation for the dashboard HTTP API
// ABOUTME: Endpoint surface and session model

/*
Package api exposes the dashboard over HTTP.

Everything under /api except POST /api/login requires a bearer session
token. The surface:

	POST   /api/login                      issue a session token
	GET    /api/agents                     list agent records
	GET    /api/agents/{id}                one record
	DELETE /api/agents/{id}                remove a record
	GET    /api/agents/events              SSE feed of record changes
	GET    /api/wizard/draft               current draft (optionally mounting a step)
	PATCH  /api/wizard/draft               apply a partial draft update
	POST   /api/wizard/{step}/continue     validate and advance
	POST   /api/wizard/{step}/previous     step back without validating
	POST   /api/wizard/{step}/save-draft   save and leave for the list
	GET    /api/wizard/recap               derived summary for the final step
	POST   /api/wizard/publish             publish and reset the draft
	GET    /health                         liveness (public)

Each user gets one wizard session holding the shared draft store and the
per-step controllers; a Continue blocked by validation returns 422 with the
per-field invalid map and the first invalid anchor.
*/
package api
