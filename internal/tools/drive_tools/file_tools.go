package drive_tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/stellarshank/gdrive-mcp/internal/instrumentation"
	"github.com/stellarshank/gdrive-mcp/internal/server"
	"github.com/stellarshank/gdrive-mcp/internal/tools/common"
)

// defaultPageSize is used when the caller omits page_size.
const defaultPageSize = 10

// registerFileTools registers the file listing and upload tools
func registerFileTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listFilesTool := mcp.NewTool("list_drive_files",
		mcp.WithDescription("List recent files in Google Drive"),
		mcp.WithNumber("page_size",
			mcp.Description("Number of files to return (default: 10, max: 100)"),
		),
	)
	s.AddTool(listFilesTool, common.InstrumentedToolHandler("list_drive_files", sc, listFilesHandler(sc)))

	uploadFileTool := mcp.NewTool("upload_to_drive",
		mcp.WithDescription("Upload a file to Google Drive"),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the local file to upload"),
		),
		mcp.WithString("folder_id",
			mcp.Description("Optional folder ID to upload into"),
		),
	)
	s.AddTool(uploadFileTool, common.InstrumentedToolHandler("upload_to_drive", sc, uploadFileHandler(sc)))

	return nil
}

// listFilesHandler returns the handler for the list_drive_files tool.
func listFilesHandler(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		pageSize := int64(defaultPageSize)
		if v, ok := args["page_size"].(float64); ok {
			pageSize = int64(v)
		}

		client, err := sc.DriveClient(ctx)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		files, err := client.ListFiles(ctx, pageSize)
		if err != nil {
			recordDriveOperation(ctx, sc, "list", instrumentation.StatusError, start)
			return mcp.NewToolResultError(fmt.Sprintf("Error listing files: %v", err)), nil
		}
		recordDriveOperation(ctx, sc, "list", instrumentation.StatusSuccess, start)

		return mcp.NewToolResultText(formatFileList(files)), nil
	}
}

// uploadFileHandler returns the handler for the upload_to_drive tool.
// The local path is checked before any credential or API work, so a
// missing file never reaches the remote API.
func uploadFileHandler(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		filePath, ok := args["file_path"].(string)
		if !ok || filePath == "" {
			return mcp.NewToolResultError("file_path is required"), nil
		}

		folderID, _ := args["folder_id"].(string)

		// Resolve relative paths against the working directory before the
		// existence check, so the reported path is unambiguous.
		if !filepath.IsAbs(filePath) {
			abs, err := filepath.Abs(filePath)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Error uploading file: %v", err)), nil
			}
			filePath = abs
		}

		if _, err := os.Stat(filePath); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("File not found: %s", filePath)), nil
		}

		client, err := sc.DriveClient(ctx)
		if err != nil {
			return nil, err
		}

		f, err := os.Open(filePath)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error uploading file: %v", err)), nil
		}
		defer f.Close()

		start := time.Now()
		info, err := client.UploadFile(ctx, filepath.Base(filePath), f, folderID)
		if err != nil {
			recordDriveOperation(ctx, sc, "upload", instrumentation.StatusError, start)
			return mcp.NewToolResultError(fmt.Sprintf("Error uploading file: %v", err)), nil
		}
		recordDriveOperation(ctx, sc, "upload", instrumentation.StatusSuccess, start)

		return mcp.NewToolResultText(formatUploadResult(info)), nil
	}
}
