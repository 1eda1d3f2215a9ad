package utils

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

func GetRandomUserAgent() string {
	return userAgents[time.Now().UnixNano()%int64(len(userAgents))]
}

func ParseHeaderArgs(headers []string) map[string]string {
	result := make(map[string]string)
	for _, header := range headers {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			result[key] = value
		}
	}
	return result
}

// TempPattern is the os.CreateTemp pattern for staging a download of base.
func TempPattern(base string) string {
	return base + TempMarker + "*" + TempSuffix
}

func IsTempFile(name string) bool {
	return strings.Contains(name, TempMarker) && strings.HasSuffix(name, TempSuffix)
}

// CleanTempFiles removes staging files left behind in dir by interrupted
// downloads and returns the paths it removed.
func CleanTempFiles(dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, file := range files {
		if file.IsDir() || !IsTempFile(file.Name()) {
			continue
		}
		filePath := filepath.Join(dir, file.Name())
		if err := os.Remove(filePath); err != nil {
			return removed, err
		}
		removed = append(removed, filePath)
	}
	return removed, nil
}
