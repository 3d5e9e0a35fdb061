// Package accounts provides account lifecycle primitives for a single-tenant
// service: registration with unique email/username enforcement, time-bounded
// e-mail confirmation, bcrypt credential storage, and signed session tokens.
//
// Registration flow:
//   - Registrar.Register creates an unconfirmed User and a Confirmation whose
//     key is handed back to the caller. Delivery of the key (e-mail, etc.) is
//     the caller's concern.
//   - Registrar.Confirm consumes the key, hashes the supplied password, and
//     flips the account to confirmed. Expired confirmations are rejected but
//     left in place; expiry is only ever observed lazily, there is no
//     background sweeper.
//
// Authentication:
//   - Auther.ValidateLogin checks credentials against the store and
//     returns a sanitized Identity. A failed login is a normal outcome, not
//     an error; errors are reserved for infrastructure faults.
//   - TokenService issues and validates HS256 JWTs carrying the identity's
//     public fields. The signing secret always comes from configuration.
//
// Storage:
//   - MemoryStore is the reference store: mutex-guarded maps, volatile, with
//     uniqueness enforced under the lock so concurrent registrations cannot
//     both win the same email or username.
//   - BunStore persists the same contracts through Bun, for deployments that
//     want the accounts to survive a restart.
package accounts
