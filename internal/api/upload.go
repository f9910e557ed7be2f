package api

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// ProgressFunc receives the fraction uploaded so far, in [0,1].
type ProgressFunc func(frac float64)

// progressReader đếm số byte đã đọc từ file nguồn và báo tiến độ lên callback.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	progress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 && p.progress != nil {
		p.read += int64(n)
		frac := float64(p.read) / float64(p.total)
		if frac > 1 {
			frac = 1
		}
		p.progress(frac)
	}
	return n, err
}

// UploadFile uploads one local file into parentID ("" = root) as a streamed
// multipart request and returns the canonical file object. One request per
// file; batch semantics (isolation of sibling failures) live in internal/upload.
func (c *Client) UploadFile(ctx context.Context, path, parentID string, progress ProgressFunc) (RemoteFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return RemoteFile{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return RemoteFile{}, fmt.Errorf("stat %s: %w", path, err)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		var werr error
		defer func() { pw.CloseWithError(werr) }()

		if parentID != "" {
			if werr = mw.WriteField("parent_id", parentID); werr != nil {
				return
			}
		}
		part, perr := mw.CreateFormFile("file", filepath.Base(path))
		if perr != nil {
			werr = perr
			return
		}
		src := &progressReader{r: f, total: info.Size(), progress: progress}
		if _, werr = io.Copy(part, src); werr != nil {
			return
		}
		werr = mw.Close()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files/upload", pr)
	if err != nil {
		return RemoteFile{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if mt := mime.TypeByExtension(filepath.Ext(path)); mt != "" {
		req.Header.Set("X-Upload-Mime-Hint", mt)
	}

	var out RemoteFile
	if err := c.doJSON(req, &out); err != nil {
		return RemoteFile{}, err
	}
	if progress != nil {
		progress(1)
	}
	return out, nil
}
