package checksum

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

func GetFileChecksum(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to copy file content to hasher for file %s: %w", filePath, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// SameContent reports whether both files hash to the same checksum.
func SameContent(firstPath, secondPath string) (bool, error) {
	first, err := GetFileChecksum(firstPath)
	if err != nil {
		return false, err
	}
	second, err := GetFileChecksum(secondPath)
	if err != nil {
		return false, err
	}
	return first == second, nil
}
