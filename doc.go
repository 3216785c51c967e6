// Package auth implements the ClimaPredict authentication gateway: JWT
// issuance and verification, credential validation against a pluggable
// identity store, the password reset flow, and the public/protected request
// classification policy enforced by the gateware middleware.
//
// Token lifecycle:
//   - TokenService signs compact HS256 tokens carrying subject, email, and a
//     purpose tag. Session tokens live for 7 days, reset tokens for 1 hour.
//     Expiry is the only termination mechanism; there is no revocation list
//     and the server keeps no session table.
//   - Purpose tags keep the two token families apart: the gateway and the
//     guest resolver only accept session tokens, the reset flow only accepts
//     reset tokens.
//
// Request gating:
//   - PathClassifier labels every path Public or Protected. The gateware
//     middleware consults it on each request and either forwards the request,
//     redirects to the login page with the original path preserved, or clears
//     a stale session cookie before redirecting.
//   - GuestResolver serves feature handlers that degrade instead of failing
//     when no valid identity is present (empty reads, acknowledged-but-not-
//     persisted writes).
package auth
