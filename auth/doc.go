// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth issues and resolves student session tokens.

Tokens are opaque UUIDs handed out at login and sent back by clients in the
Authorization header as a bearer token. A token identifies a student uid
and nothing more; instructor access is authorized by client IP in the
router, not by token.

	sessions := auth.NewSessions()
	token := sessions.Issue(uid)
	uid, err := sessions.Lookup(token)
*/
package auth
