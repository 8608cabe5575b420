// Package controller provides bearer-token REST clients for the two
// automation control planes involved in a migration: AWX instances
// (source and reference environments, /api/v2) and the AAP controller
// (target, /api/controller/v2).
//
// The clients cover exactly what the reconciliation engine and the
// kind adapters consume: paginated listings, name+organization
// lookups, create/update calls, and the sanity checks (ping,
// organization existence) a run performs before any mutation.
// TargetClient implements reconcile.Target.
//
// Transport-level behavior is deliberately simple: one request per
// call with connection and header timeouts, no retry loop. TLS
// verification is off by default because these installs commonly run
// on internal CAs; enable it per environment via verify_tls.
package controller
