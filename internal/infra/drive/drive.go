package drive

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Google Drive URL forms that carry a file ID.
var (
	filePattern   = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)
	folderPattern = regexp.MustCompile(`/folders/([a-zA-Z0-9_-]+)`)
	docPattern    = regexp.MustCompile(`/(?:document|spreadsheets|presentation)/d/([a-zA-Z0-9_-]+)`)
)

var audioExtensions = []string{".mp3", ".wav", ".m4a", ".ogg", ".flac", ".aac"}

// ExtractFileID pulls the file ID out of any supported Drive URL form.
// Returns "" when no ID is present.
func ExtractFileID(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	if m := filePattern.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	if u, err := url.Parse(rawURL); err == nil {
		if id := u.Query().Get("id"); id != "" {
			return id
		}
	}
	if m := folderPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	if m := docPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

// IsValidLink reports whether the URL is a Google Drive link that carries a
// file ID.
func IsValidLink(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host != "drive.google.com" && host != "docs.google.com" {
		return false
	}
	return ExtractFileID(rawURL) != ""
}

// FileIdentifier derives the stable identifier used to key an analysis:
// the Drive file ID when one exists, a filename or path hash otherwise.
func FileIdentifier(audioURL, localPath string) string {
	if id := ExtractFileID(audioURL); id != "" {
		return id + "_MPE"
	}
	if localPath != "" {
		stem := strings.TrimSuffix(filepath.Base(localPath), filepath.Ext(localPath))
		if stem != "" && stem != "tmp" && len(stem) > 3 {
			return stem + "_MPE"
		}
		sum := md5.Sum([]byte(localPath))
		return fmt.Sprintf("local_%x_MPE", sum[:4])
	}
	return fmt.Sprintf("audio_%d_MPE", time.Now().Unix())
}

// ValidateAudioFile checks a downloaded file is present, non-empty and has a
// recognized audio extension.
func ValidateAudioFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("file does not exist: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty")
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range audioExtensions {
		if ext == e {
			return nil
		}
	}
	return fmt.Errorf("file is not a recognized audio format: %s", ext)
}

// Downloader fetches Drive-hosted audio into a temp file.
type Downloader struct {
	client *http.Client
}

func NewDownloader() *Downloader {
	return &Downloader{client: &http.Client{Timeout: 5 * time.Minute}}
}

// Identifier exposes FileIdentifier through the orchestrator port.
func (d *Downloader) Identifier(audioURL string) string {
	return FileIdentifier(audioURL, "")
}

// Download fetches the file behind a Drive link into a temp .wav file and
// returns the local path. The caller owns the file and removes it when done.
func (d *Downloader) Download(ctx context.Context, rawURL string) (string, error) {
	id := ExtractFileID(rawURL)
	if id == "" {
		return "", fmt.Errorf("could not extract file ID from URL: %s", rawURL)
	}

	dlURL := fmt.Sprintf("https://drive.google.com/uc?export=download&id=%s", id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dlURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "callsight-*.wav")
	if err != nil {
		return "", err
	}
	n, err := io.Copy(tmp, resp.Body)
	cerr := tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing audio file: %w", err)
	}
	if cerr != nil {
		os.Remove(tmp.Name())
		return "", cerr
	}
	if n == 0 {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("downloaded file is empty")
	}
	if err := ValidateAudioFile(tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
