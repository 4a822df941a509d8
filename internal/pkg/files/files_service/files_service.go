package files_service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cloud_drive_agent/internal/pkg/http_client"
)

// FilesService issues the file, folder and share operations against the
// backend. The auth core treats these endpoints as opaque; the cache and
// the upload watcher are the consumers.
type FilesService struct {
	baseURL string
	tokens  TokenStore
	client  *http_client.LoggedClient
}

func NewFilesService(baseURL, logServerURL string, tokens TokenStore) *FilesService {
	return &FilesService{
		baseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		tokens:  tokens,
		client:  http_client.NewLoggedClient(logServerURL),
	}
}

func (fs *FilesService) newRequest(method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, fs.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	if token := fs.tokens.Get(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (fs *FilesService) do(req *http.Request, out interface{}) error {
	resp, err := fs.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("request failed: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %v", err)
		}
	}
	return nil
}

// ListFiles fetches the file listing for the drive or trash views.
func (fs *FilesService) ListFiles(opts *ListOptions) ([]*File, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Deleted != nil {
			params.Set("deleted", strconv.FormatBool(*opts.Deleted))
		}
		if opts.Starred != nil {
			params.Set("starred", strconv.FormatBool(*opts.Starred))
		}
		if opts.Recent != nil {
			params.Set("recent", strconv.FormatBool(*opts.Recent))
		}
		if opts.ParentID != nil {
			if *opts.ParentID == "" {
				params.Set("parentId", "root")
			} else {
				params.Set("parentId", *opts.ParentID)
			}
		}
		if opts.Page > 0 {
			params.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if s := strings.TrimSpace(opts.Search); s != "" {
			params.Set("search", s)
		}
		if opts.SortBy != "" {
			params.Set("sortBy", opts.SortBy)
		}
		if opts.SortOrder != "" {
			params.Set("sortOrder", opts.SortOrder)
		}
	}

	endpoint := "/files"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := fs.newRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Files []*File `json:"files"`
	}
	if err := fs.do(req, &result); err != nil {
		return nil, fmt.Errorf("failed to list files: %v", err)
	}
	return result.Files, nil
}

// UploadFile uploads file contents as multipart form data. The content
// type is the multipart boundary one, never application/json.
func (fs *FilesService) UploadFile(name string, data []byte, parentID *string) (*File, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %v", err)
	}
	if parentID != nil {
		if err := writer.WriteField("parentId", *parentID); err != nil {
			return nil, fmt.Errorf("failed to build multipart body: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %v", err)
	}

	req, err := fs.newRequest(http.MethodPost, "/files/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result struct {
		File *File `json:"file"`
	}
	if err := fs.do(req, &result); err != nil {
		return nil, fmt.Errorf("failed to upload file: %v", err)
	}
	return result.File, nil
}

// UploadFileFromPath reads a local file and uploads it under its base name.
func (fs *FilesService) UploadFileFromPath(path string, parentID *string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", path, err)
	}
	return fs.UploadFile(filepath.Base(path), data, parentID)
}

// CreateFolder creates a folder under the given parent (nil for root).
func (fs *FilesService) CreateFolder(name string, parentID *string) (*File, error) {
	body, err := json.Marshal(map[string]interface{}{
		"name":     name,
		"parentId": parentID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := fs.newRequest(http.MethodPost, "/files/folders", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var result struct {
		Folder *File `json:"folder"`
	}
	if err := fs.do(req, &result); err != nil {
		return nil, fmt.Errorf("failed to create folder: %v", err)
	}
	return result.Folder, nil
}

// UpdateFile renames, moves or stars a file.
func (fs *FilesService) UpdateFile(id string, payload UpdateRequest) (*File, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := fs.newRequest(http.MethodPatch, "/files/"+id, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var result struct {
		File *File `json:"file"`
	}
	if err := fs.do(req, &result); err != nil {
		return nil, fmt.Errorf("failed to update file: %v", err)
	}
	return result.File, nil
}

// SoftDeleteFile moves a file to the trash.
func (fs *FilesService) SoftDeleteFile(id string) error {
	req, err := fs.newRequest(http.MethodDelete, "/files/"+id, nil)
	if err != nil {
		return err
	}
	if err := fs.do(req, nil); err != nil {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}

// RestoreFile brings a trashed file back.
func (fs *FilesService) RestoreFile(id string) error {
	req, err := fs.newRequest(http.MethodPost, "/files/"+id+"/restore", nil)
	if err != nil {
		return err
	}
	if err := fs.do(req, nil); err != nil {
		return fmt.Errorf("failed to restore file: %v", err)
	}
	return nil
}

// PermanentDeleteFile removes a trashed file for good.
func (fs *FilesService) PermanentDeleteFile(id string) error {
	req, err := fs.newRequest(http.MethodDelete, "/files/"+id+"/permanent", nil)
	if err != nil {
		return err
	}
	if err := fs.do(req, nil); err != nil {
		return fmt.Errorf("failed to permanently delete file: %v", err)
	}
	return nil
}

// GetDownloadURL resolves a short-lived download link.
func (fs *FilesService) GetDownloadURL(id string) (string, error) {
	req, err := fs.newRequest(http.MethodGet, "/files/"+id+"/download", nil)
	if err != nil {
		return "", err
	}

	var result struct {
		DownloadURL string `json:"downloadUrl"`
	}
	if err := fs.do(req, &result); err != nil {
		return "", fmt.Errorf("failed to get download url: %v", err)
	}
	return result.DownloadURL, nil
}

// ListSharedWithMe lists shares granted to the current user.
func (fs *FilesService) ListSharedWithMe(opts *PageOptions) (*ShareList, error) {
	return fs.listShares("/shares/shared-with-me", opts)
}

// ListSharedByMe lists shares the current user granted.
func (fs *FilesService) ListSharedByMe(opts *PageOptions) (*ShareList, error) {
	return fs.listShares("/shares/shared-by-me", opts)
}

func (fs *FilesService) listShares(endpoint string, opts *PageOptions) (*ShareList, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Page > 0 {
			params.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if s := strings.TrimSpace(opts.Search); s != "" {
			params.Set("search", s)
		}
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := fs.newRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	result := &ShareList{}
	if err := fs.do(req, result); err != nil {
		return nil, fmt.Errorf("failed to list shares: %v", err)
	}
	if result.Page == 0 {
		result.Page = 1
	}
	if result.Total == 0 {
		result.Total = len(result.Shares)
	}
	return result, nil
}

// ShareFile grants a user access to a file.
func (fs *FilesService) ShareFile(fileID, email, permissions string) error {
	if permissions == "" {
		permissions = "view"
	}
	body, err := json.Marshal(map[string]string{
		"email":       email,
		"permissions": permissions,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := fs.newRequest(http.MethodPost, "/shares/"+fileID+"/share", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if err := fs.do(req, nil); err != nil {
		return fmt.Errorf("failed to share file: %v", err)
	}
	return nil
}

// RevokeShare removes a previously granted share.
func (fs *FilesService) RevokeShare(shareID string) error {
	req, err := fs.newRequest(http.MethodDelete, "/shares/"+shareID, nil)
	if err != nil {
		return err
	}
	if err := fs.do(req, nil); err != nil {
		return fmt.Errorf("failed to revoke share: %v", err)
	}
	return nil
}
