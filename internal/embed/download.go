// ABOUTME: Model asset downloader with size verification and atomic rename
// ABOUTME: A crash mid-download never leaves a corrupt asset visible to the loader
package embed

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Asset is one downloadable model file with its expected byte count.
type Asset struct {
	Name string
	Size int64
}

// ModelAssets lists the files of multi-qa-mpnet-base-cos-v1 needed by the
// engine, with expected sizes for download verification.
var ModelAssets = []Asset{
	{Name: "model.onnx", Size: 435_826_548},
	{Name: "tokenizer.json", Size: 711_649},
	{Name: "config.json", Size: 612},
	{Name: "tokenizer_config.json", Size: 1_578},
	{Name: "special_tokens_map.json", Size: 964},
	{Name: "vocab.txt", Size: 231_508},
}

// ModelBaseURL is where model assets are fetched from. The ONNX export
// lives under the onnx/ subdirectory of the repository.
const ModelBaseURL = "https://huggingface.co/sentence-transformers/multi-qa-mpnet-base-cos-v1/resolve/main"

// DownloadProgress reports cumulative download state across all assets.
type DownloadProgress struct {
	BytesDownloaded int64   `json:"bytes_downloaded"`
	TotalBytes      int64   `json:"total_bytes"`
	Percent         float64 `json:"percent"`
	File            string  `json:"file"`
}

// DownloadModel fetches all model assets into dir. Progress may be nil.
func DownloadModel(dir string, progress func(DownloadProgress)) error {
	return downloadAssets(ModelBaseURL, ModelAssets, dir, progress)
}

// downloadAssets streams each asset to a temporary path, verifies its byte
// count against the expected size, and only then atomically moves it into
// place.
func downloadAssets(baseURL string, assets []Asset, dir string, progress func(DownloadProgress)) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}

	client := &http.Client{Timeout: 30 * time.Minute}

	var totalBytes int64
	for _, asset := range assets {
		totalBytes += asset.Size
	}

	var downloaded int64
	for _, asset := range assets {
		url := baseURL + "/" + asset.Name
		if asset.Name == "model.onnx" {
			url = baseURL + "/onnx/" + asset.Name
		}

		destPath := filepath.Join(dir, asset.Name)
		tempPath := destPath + ".tmp"

		n, err := fetchToFile(client, url, tempPath, func(chunk int64) {
			downloaded += chunk
			if progress != nil {
				progress(DownloadProgress{
					BytesDownloaded: downloaded,
					TotalBytes:      totalBytes,
					Percent:         float64(downloaded) / float64(totalBytes) * 100,
					File:            asset.Name,
				})
			}
		})
		if err != nil {
			_ = os.Remove(tempPath)
			return fmt.Errorf("downloading %s: %w", asset.Name, err)
		}

		if n != asset.Size {
			_ = os.Remove(tempPath)
			return fmt.Errorf("size mismatch for %s: expected %d bytes, got %d", asset.Name, asset.Size, n)
		}

		if err := os.Rename(tempPath, destPath); err != nil {
			_ = os.Remove(tempPath)
			return fmt.Errorf("installing %s: %w", asset.Name, err)
		}
	}

	return nil
}

// fetchToFile streams url into path, reporting each chunk's size, and
// returns the number of bytes written.
func fetchToFile(client *http.Client, url, path string, onChunk func(int64)) (int64, error) {
	resp, err := client.Get(url)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	var written int64
	buf := make([]byte, 64*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := file.Write(buf[:n]); err != nil {
				_ = file.Close()
				return written, err
			}
			written += int64(n)
			onChunk(int64(n))
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = file.Close()
			return written, readErr
		}
	}

	return written, file.Close()
}
