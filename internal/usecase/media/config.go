package media

import (
	"math"
	"path"
	"strings"
)

const (
	UploadsBucket = "uploads"
	OutputsBucket = "outputs"

	// DownloadPrefix is the public path outputs are served under.
	DownloadPrefix = "/download/"

	maxImageQuality = 90

	// partialPrefix marks a video output still being written; dot names are
	// never served.
	partialPrefix = ".part-"
)

// ImageQuality derives the encoder quality from a video bitrate figure,
// clamped to [1, 90]: round(kbps / 1000 * 80).
func ImageQuality(videoBitrateKbps int) int {
	q := int(math.Round(float64(videoBitrateKbps) / 1000 * 80))
	if q > maxImageQuality {
		return maxImageQuality
	}
	if q < 1 {
		return 1
	}
	return q
}

// DownloadURL is the retrieval reference of an output.
func DownloadURL(outputName string) string {
	return DownloadPrefix + outputName
}

// sourceBase strips the extension from a stored source filename.
func sourceBase(filename string) string {
	return strings.TrimSuffix(filename, path.Ext(filename))
}

// OutputName derives the deterministic name of an output:
// <source base>_<platform>.<ext>.
func OutputName(sourceFilename, platform, ext string) string {
	return sourceBase(sourceFilename) + "_" + platform + "." + ext
}

// partialName is where the video engine writes before the output is promoted.
func partialName(outputName string) string {
	return partialPrefix + outputName
}
