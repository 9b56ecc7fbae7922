package domain

import "sync/atomic"

var nextRequestID atomic.Uint32

// DownloadRequest is one queued download.
type DownloadRequest struct {
	ID      uint32
	URL     OonURL
	Quality Quality
	DestDir string
}

// NewDownloadRequest assigns a process-unique id.
func NewDownloadRequest(u OonURL, q Quality, destDir string) DownloadRequest {
	return DownloadRequest{
		ID:      nextRequestID.Add(1) - 1,
		URL:     u,
		Quality: q,
		DestDir: destDir,
	}
}

// QueueItem is the visible representation of a pending request.
type QueueItem struct {
	RequestID uint32
	Title     string
}

func (r DownloadRequest) QueueItem() QueueItem {
	return QueueItem{RequestID: r.ID, Title: r.URL.String()}
}
