package drive_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/stellarshank/gdrive-mcp/internal/instrumentation"
	"github.com/stellarshank/gdrive-mcp/internal/server"
	"github.com/stellarshank/gdrive-mcp/internal/tools/common"
)

// registerFolderTools registers the folder creation tool
func registerFolderTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	createFolderTool := mcp.NewTool("create_drive_folder",
		mcp.WithDescription("Create a new folder in Google Drive"),
		mcp.WithString("folder_name",
			mcp.Required(),
			mcp.Description("Name of the folder to create"),
		),
		mcp.WithString("parent_id",
			mcp.Description("Optional parent folder ID"),
		),
	)
	s.AddTool(createFolderTool, common.InstrumentedToolHandler("create_drive_folder", sc, createFolderHandler(sc)))

	return nil
}

// createFolderHandler returns the handler for the create_drive_folder tool.
func createFolderHandler(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		folderName, ok := args["folder_name"].(string)
		if !ok || folderName == "" {
			return mcp.NewToolResultError("folder_name is required"), nil
		}

		parentID, _ := args["parent_id"].(string)

		client, err := sc.DriveClient(ctx)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		info, err := client.CreateFolder(ctx, folderName, parentID)
		if err != nil {
			recordDriveOperation(ctx, sc, "create_folder", instrumentation.StatusError, start)
			return mcp.NewToolResultError(fmt.Sprintf("Error creating folder: %v", err)), nil
		}
		recordDriveOperation(ctx, sc, "create_folder", instrumentation.StatusSuccess, start)

		return mcp.NewToolResultText(formatFolderResult(info)), nil
	}
}
