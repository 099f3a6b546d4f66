package drive_tools

import (
	"fmt"
	"strings"

	"github.com/stellarshank/gdrive-mcp/internal/drive"
)

// noFilesMessage is the fixed sentinel for an empty listing, distinguishable
// from any non-empty listing output.
const noFilesMessage = "No files found in Google Drive."

// formatFileList renders a listing as numbered entries with name, ID, and
// the web link when the API returned one.
func formatFileList(files []*drive.FileInfo) string {
	if len(files) == 0 {
		return noFilesMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d files:\n\n", len(files))
	for i, file := range files {
		fmt.Fprintf(&b, "%d. %s\n", i+1, file.Name)
		fmt.Fprintf(&b, "   ID: %s\n", file.ID)
		if file.WebViewLink != "" {
			fmt.Fprintf(&b, "   Link: %s\n", file.WebViewLink)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// formatUploadResult renders the upload confirmation. Folders and some file
// types come back without a web link; render N/A rather than an empty field.
func formatUploadResult(info *drive.FileInfo) string {
	link := info.WebViewLink
	if link == "" {
		link = "N/A"
	}
	return fmt.Sprintf("✓ File uploaded!\nName: %s\nLink: %s", info.Name, link)
}

// formatFolderResult renders the folder creation confirmation.
func formatFolderResult(info *drive.FileInfo) string {
	return fmt.Sprintf("✓ Folder created!\nName: %s\nID: %s", info.Name, info.ID)
}
