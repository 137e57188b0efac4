// Package download holds the download engine: the Downloader port, the
// yt-dlp and direct-HTTP adapters, in-memory progress tracking, and the
// manager that runs jobs in the background.
package download

import "context"

// Event is one progress report from a Downloader. The event set is
// deliberately closed: terminal success or failure is the Download
// return value, not an event variant.
type Event struct {
	Downloaded int64
	Total      int64   // 0 when unknown
	Percent    float64 // 0-100
	Speed      string
	ETA        string
	Filename   string
}

// Downloader resolves a source URL into media on disk. outputTemplate
// contains a yt-dlp style %(ext)s placeholder for the final media
// extension. Implementations send progress into events and must not
// send after Download returns; the caller owns closing the channel.
type Downloader interface {
	Download(ctx context.Context, url, outputTemplate string, events chan<- Event) error
}
