// Package tableside holds the client-side authentication core for the
// Gilded Spoon ordering client: credential storage, backend session
// validation, the process-wide session state, and the route guards that
// gate navigation.
//
// Session lifecycle:
//   - The Manager is the single writer of the Session. On start it hydrates
//     from the TokenStore and, when a credential exists, exchanges it for a
//     verified Identity through the SessionValidator. Login applies the
//     credential optimistically and reconciles with the validator's answer;
//     a rejection rolls the optimistic state back.
//   - Readers (views, the API client, guards) observe Session snapshots
//     through Manager.Session or Manager.Subscribe and never mutate state
//     directly.
//
// Credentials are opaque bearer tokens. The client never decodes them; the
// only authority on identity is the backend's validation endpoint.
package tableside
