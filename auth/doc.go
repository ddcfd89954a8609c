// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides session identifiers and session keys.

# Session IDs

Sessions are identified by random UUIDv4 strings:

	id := auth.GenerateSessionID()
	id, err := auth.ParseSessionID(r.PathValue("id"))

# Session Keys

Session keys use HMAC-SHA256 to create deterministic, verifiable keys:

	key := auth.GenerateSessionKey(sessionID, salt)
	err := auth.ValidateSessionKey(sessionID, key, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same session ID and salt always produce the same key. This allows
validation without storing the key in the database. Plays and session
deletion require the key in the X-Session-Key header.

# IP Hashing

Session rows record where they were opened from without keeping the address:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
