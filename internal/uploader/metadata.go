package uploader

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"phantomsync/internal/resolver"
)

type storeInfoRequest struct {
	InfoString string `json:"infoString"`
	Markdown   string `json:"markdown"`
}

// SidecarPaths returns the .json and .md store files that belong with path.
func SidecarPaths(path string) (jsonPath, mdPath string) {
	stem := strings.TrimSuffix(path, filepath.Ext(path))
	return stem + ".json", stem + ".md"
}

// UploadMetadata pushes the store settings (.json) and description (.md)
// sitting next to target.RealPath. A missing file counts as empty; any other
// read failure, or a .json file that is present but not valid JSON, aborts
// the upload.
func (c *Client) UploadMetadata(ctx context.Context, target resolver.Target) Outcome {
	out := Outcome{
		Kind:       KindMetadata,
		Account:    target.Account.Name,
		ScriptName: target.ScriptName,
		ScriptPath: target.ScriptPath,
	}

	jsonPath, mdPath := SidecarPaths(target.RealPath)

	info, found, err := readSidecar(jsonPath)
	if err != nil {
		out.Err = err
		return out
	}

	if found {
		var v any
		if err := json.Unmarshal([]byte(info), &v); err != nil {
			out.Err = &JSONParseError{Path: jsonPath, Cause: err}
			return out
		}
	}

	markdown, _, err := readSidecar(mdPath)
	if err != nil {
		out.Err = err
		return out
	}

	res, err := c.post(ctx, target.Account, "/store-info/by-name/"+url.PathEscape(target.ScriptName), storeInfoRequest{
		InfoString: info,
		Markdown:   markdown,
	})
	if err != nil {
		out.Err = err
		return out
	}

	if !res.success() {
		out.Err = res.rejected()
	}

	return out
}

// readSidecar reports a missing file as empty content with found false.
func readSidecar(path string) (text string, found bool, err error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &FileReadError{Path: path, Cause: err}
	}

	return string(b), true, nil
}
