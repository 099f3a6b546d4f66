// Package auth manages the OAuth2 credential lifecycle for the Google Drive
// API: loading a persisted token, refreshing it when expired, and falling
// back to an interactive browser authorization flow when no usable token
// exists. Tokens are persisted to a per-user file so that authorization
// survives process restarts.
package auth
