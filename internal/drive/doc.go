// Package drive provides a client for interacting with the Google Drive API.
//
// The client covers the operations the MCP tools expose:
//   - Listing files (a single bounded page)
//   - Uploading local files, optionally into a folder
//   - Creating folders
//
// A Client is a thin handle over an authenticated drive.Service, built
// fresh for every tool invocation from the current OAuth2 token. Handles
// are cheap to construct; the dominant cost is the network call itself.
//
// OAuth Authentication:
// Clients are constructed from a token produced by the auth package. The
// OAuth scope is drive.file, which restricts access to files created or
// opened by this application.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := drive.NewClient(ctx, token)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	files, err := client.ListFiles(ctx, 10)
package drive
