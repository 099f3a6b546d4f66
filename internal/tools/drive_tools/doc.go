// Package drive_tools provides MCP (Model Context Protocol) tools for Google Drive operations.
//
// This package exposes Drive functionality to MCP clients (like AI assistants)
// through three tools:
//   - list_drive_files: List recent files (single page, max 100)
//   - upload_to_drive: Upload a local file, optionally into a folder
//   - create_drive_folder: Create a new folder, optionally under a parent
//
// All tools return human-readable text on both success and failure. Errors
// raised inside a tool's own request logic are collapsed to an error-text
// result at the handler boundary; only credential acquisition and
// configuration failures propagate to the host as errors.
//
// Example tool usage:
//
//	upload_to_drive({
//	  file_path: "/home/user/report.pdf",
//	  folder_id: "folder_id"
//	})
//
//	list_drive_files({ page_size: 10 })
package drive_tools
