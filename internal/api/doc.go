// Package api exposes the task service over HTTP as a small JSON API.
//
// Routes:
//
//	GET    /api/tasks                 list every task
//	POST   /api/tasks                 create a task from {"title": "..."}
//	GET    /api/tasks/{id}            fetch one task
//	POST   /api/tasks/{id}/complete   mark a task completed
//	DELETE /api/tasks/{id}            delete a task
//	GET    /health                    liveness probe
//	GET    /metrics                   Prometheus metrics
//
// Errors are returned as {"error": "...", "trace_id": "..."} with internal
// details redacted.
package api
