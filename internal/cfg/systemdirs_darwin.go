package cfg

import (
	"os"
	"path/filepath"
)

const (
	appFolderName = "ZenSubscriptions"
	configDirName = "Config"
)

// Files in ~/Library/Preferences should only be managed through native APIs, so a subfolder of ~/Library/Application Support is used instead.
// https://developer.apple.com/library/archive/documentation/FileManagement/Conceptual/FileSystemProgrammingGuide/FileSystemOverview/FileSystemOverview.html

func getConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, "Library", "Application Support", appFolderName, configDirName), nil
}

func getDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, "Library", "Application Support", appFolderName), nil
}
