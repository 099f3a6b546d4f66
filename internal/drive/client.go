package drive

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	// FolderMimeType is the MIME type marker that makes a Drive file entry
	// a folder.
	FolderMimeType = "application/vnd.google-apps.folder"

	// MaxPageSize is the upper bound on the page size for list requests.
	MaxPageSize = 100

	// listFields restricts list responses to the fields the tools render.
	listFields = "files(id, name, mimeType, webViewLink)"

	// fileFields restricts create/upload responses to the fields the tools render.
	fileFields = "id, name, mimeType, webViewLink"
)

// Client wraps the Google Drive API service
type Client struct {
	service *drive.Service
}

// NewClient creates a Google Drive client authenticated with the given
// OAuth2 token. The token must be valid for the lifetime of the calls made
// through the client; callers obtain one from the auth provider per
// invocation. Extra options are for tests (custom endpoint, HTTP client).
func NewClient(ctx context.Context, token *oauth2.Token, opts ...option.ClientOption) (*Client, error) {
	if token == nil {
		return nil, fmt.Errorf("token is required")
	}

	clientOpts := append([]option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(token)),
	}, opts...)

	service, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{service: service}, nil
}

// ListFiles requests a single page of files. pageSize is clamped to
// MaxPageSize; non-positive values are left to the API's default page
// size. No multi-page iteration is performed.
func (c *Client) ListFiles(ctx context.Context, pageSize int64) ([]*FileInfo, error) {
	call := c.service.Files.List().
		Context(ctx).
		Fields(listFields)

	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if pageSize > 0 {
		call = call.PageSize(pageSize)
	}

	fileList, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	files := make([]*FileInfo, len(fileList.Files))
	for i, f := range fileList.Files {
		files[i] = convertToFileInfo(f)
	}

	return files, nil
}

// UploadFile uploads content as a new file named name, optionally into the
// folder folderID. The media transport handles chunking and resumption;
// no retry logic lives here.
func (c *Client) UploadFile(ctx context.Context, name string, content io.Reader, folderID string) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if content == nil {
		return nil, fmt.Errorf("file content is required")
	}

	file := &drive.File{
		Name: name,
	}
	if folderID != "" {
		file.Parents = []string{folderID}
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	driveFile, err := c.service.Files.Create(file).
		Context(ctx).
		Media(content, googleapi.ContentType(contentType)).
		Fields(fileFields).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return convertToFileInfo(driveFile), nil
}

// CreateFolder creates a new folder, optionally under the parent parentID.
// An empty parentID omits the parent relationship entirely.
func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("folder name is required")
	}

	file := &drive.File{
		Name:     name,
		MimeType: FolderMimeType,
	}
	if parentID != "" {
		file.Parents = []string{parentID}
	}

	driveFile, err := c.service.Files.Create(file).
		Context(ctx).
		Fields(fileFields).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return convertToFileInfo(driveFile), nil
}

// convertToFileInfo converts a Drive API file to our FileInfo type
func convertToFileInfo(f *drive.File) *FileInfo {
	return &FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		WebViewLink: f.WebViewLink,
	}
}
