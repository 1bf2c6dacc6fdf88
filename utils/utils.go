package utils

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

func TrimmedURL(url *url.URL) *url.URL {
	if strings.HasSuffix(url.RequestURI(), "/") {
		// Eliminate trailing slashes to canonicalize the server base URL
		if trimmed, err := url.Parse(strings.TrimRight(url.String(), "/")); err != nil {
			panic(fmt.Sprintf("Bad URL: %v", err))
		} else {
			return trimmed
		}
	}
	return url
}

func PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
