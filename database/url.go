package database

import (
	"fmt"
	"net/url"
	"strings"
)

// ConstructDatabaseURL constructs a complete database URL from base URL and database name
// This function:
// - Combines base URL with database name
// - Automatically adds sslmode=disable if not present
// - Handles existing query parameters correctly
func ConstructDatabaseURL(baseURL, databaseName string) string {
	// If DATABASE_NAME is not set, return the base URL as-is
	if databaseName == "" {
		return baseURL
	}

	// Remove trailing slash from base URL
	baseURL = strings.TrimRight(baseURL, "/")
	var databaseURL string

	// Check if there are existing query parameters
	if strings.Contains(baseURL, "?") {
		parts := strings.SplitN(baseURL, "?", 2)
		databaseURL = fmt.Sprintf("%s/%s?%s", parts[0], databaseName, parts[1])
	} else {
		databaseURL = fmt.Sprintf("%s/%s", baseURL, databaseName)
	}

	return withSSLModeDisabled(databaseURL)
}

// BuildDatabaseURL assembles a postgres URL from discrete connection settings
func BuildDatabaseURL(host, port, user, password, name string) string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   host,
		Path:   "/" + name,
	}
	if port != "" {
		u.Host = host + ":" + port
	}
	if user != "" {
		if password != "" {
			u.User = url.UserPassword(user, password)
		} else {
			u.User = url.User(user)
		}
	}
	return withSSLModeDisabled(u.String())
}

func withSSLModeDisabled(databaseURL string) string {
	if strings.Contains(databaseURL, "sslmode=") {
		return databaseURL
	}
	separator := "&"
	if !strings.Contains(databaseURL, "?") {
		separator = "?"
	}
	return fmt.Sprintf("%s%ssslmode=disable", databaseURL, separator)
}
