package uploader

import (
	"context"
	"net/url"
	"os"

	"phantomsync/internal/resolver"
)

type scriptRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// UploadScript pushes the content of target.RealPath as the code of
// target.ScriptName.
func (c *Client) UploadScript(ctx context.Context, target resolver.Target) Outcome {
	out := Outcome{
		Kind:       KindScript,
		Account:    target.Account.Name,
		ScriptName: target.ScriptName,
		ScriptPath: target.ScriptPath,
	}

	text, err := os.ReadFile(target.RealPath)
	if err != nil {
		out.Err = &FileReadError{Path: target.RealPath, Cause: err}
		return out
	}

	res, err := c.post(ctx, target.Account, "/script/"+url.PathEscape(target.ScriptName), scriptRequest{
		Text:   string(text),
		Source: "sdk",
	})
	if err != nil {
		out.Err = err
		return out
	}

	if !res.success() {
		out.Err = res.rejected()
		return out
	}

	_, out.NewScript = res.Data.(float64)
	return out
}
