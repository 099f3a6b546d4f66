package drive_tools

import (
	"context"
	"fmt"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/stellarshank/gdrive-mcp/internal/server"
)

// RegisterDriveTools registers all Google Drive tools with the MCP server.
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := registerFileTools(s, sc); err != nil {
		return fmt.Errorf("failed to register file tools: %w", err)
	}

	if err := registerFolderTools(s, sc); err != nil {
		return fmt.Errorf("failed to register folder tools: %w", err)
	}

	return nil
}

// recordDriveOperation records Drive API operation metrics when
// instrumentation is configured.
func recordDriveOperation(ctx context.Context, sc *server.ServerContext, operation, status string, start time.Time) {
	if metrics := sc.Metrics(); metrics != nil {
		metrics.RecordDriveOperation(ctx, operation, status, time.Since(start))
	}
}
