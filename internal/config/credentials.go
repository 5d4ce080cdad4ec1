package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"papersbot/internal/publish/bluesky"
	"papersbot/internal/publish/mastodon"
	"papersbot/internal/publish/twitter"
)

// ErrNotConfigured is returned when a platform has neither environment
// variables nor credentials-file entries. The platform is skipped, not an
// error for the run.
var ErrNotConfigured = errors.New("platform not configured")

// Lookup resolves one environment variable. Injecting it keeps credential
// resolution testable without touching the process environment.
type Lookup func(key string) string

// credentialsFile mirrors the credentials.yml layout: the historical
// upper-case Twitter keys plus per-platform entries.
type credentialsFile struct {
	ConsumerKey    string `yaml:"CONSUMER_KEY"`
	ConsumerSecret string `yaml:"CONSUMER_SECRET"`
	AccessKey      string `yaml:"ACCESS_KEY"`
	AccessSecret   string `yaml:"ACCESS_SECRET"`

	MastodonServer string `yaml:"MASTODON_SERVER"`
	MastodonToken  string `yaml:"MASTODON_TOKEN"`

	BlueskyHandle   string `yaml:"BLUESKY_HANDLE"`
	BlueskyPassword string `yaml:"BLUESKY_PASSWORD"`
}

// loadCredentialsFile parses the YAML credentials file. A missing file is
// treated as empty so environment-only setups need no file at all.
func loadCredentialsFile(path string) (credentialsFile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return credentialsFile{}, nil
	}
	if err != nil {
		return credentialsFile{}, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds credentialsFile
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return credentialsFile{}, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return creds, nil
}

// ResolveTwitter resolves X/Twitter credentials: the four
// PAPERSBOT_TWITTER_* environment variables first, else the file.
func ResolveTwitter(lookup Lookup, file string) (twitter.Credentials, error) {
	creds := twitter.Credentials{
		ConsumerKey:    lookup("PAPERSBOT_TWITTER_CONSUMER_KEY"),
		ConsumerSecret: lookup("PAPERSBOT_TWITTER_CONSUMER_SECRET"),
		AccessKey:      lookup("PAPERSBOT_TWITTER_ACCESS_KEY"),
		AccessSecret:   lookup("PAPERSBOT_TWITTER_ACCESS_SECRET"),
	}
	if creds.ConsumerKey != "" && creds.ConsumerSecret != "" &&
		creds.AccessKey != "" && creds.AccessSecret != "" {
		return creds, nil
	}

	fromFile, err := loadCredentialsFile(file)
	if err != nil {
		return twitter.Credentials{}, err
	}
	creds = twitter.Credentials{
		ConsumerKey:    fromFile.ConsumerKey,
		ConsumerSecret: fromFile.ConsumerSecret,
		AccessKey:      fromFile.AccessKey,
		AccessSecret:   fromFile.AccessSecret,
	}
	if creds.ConsumerKey == "" || creds.ConsumerSecret == "" ||
		creds.AccessKey == "" || creds.AccessSecret == "" {
		return twitter.Credentials{}, fmt.Errorf("twitter: %w", ErrNotConfigured)
	}
	return creds, nil
}

// ResolveMastodon resolves Mastodon credentials: PAPERSBOT_MASTODON_SERVER
// and PAPERSBOT_MASTODON_TOKEN first, else the file.
func ResolveMastodon(lookup Lookup, file string) (mastodon.Credentials, error) {
	creds := mastodon.Credentials{
		Server:      lookup("PAPERSBOT_MASTODON_SERVER"),
		AccessToken: lookup("PAPERSBOT_MASTODON_TOKEN"),
	}
	if creds.Server != "" && creds.AccessToken != "" {
		return creds, nil
	}

	fromFile, err := loadCredentialsFile(file)
	if err != nil {
		return mastodon.Credentials{}, err
	}
	creds = mastodon.Credentials{
		Server:      fromFile.MastodonServer,
		AccessToken: fromFile.MastodonToken,
	}
	if creds.Server == "" || creds.AccessToken == "" {
		return mastodon.Credentials{}, fmt.Errorf("mastodon: %w", ErrNotConfigured)
	}
	return creds, nil
}

// ResolveBluesky resolves Bluesky credentials: PAPERSBOT_BLUESKY_HANDLE and
// PAPERSBOT_BLUESKY_PASSWORD first, else the file.
func ResolveBluesky(lookup Lookup, file string) (bluesky.Credentials, error) {
	creds := bluesky.Credentials{
		Identifier: lookup("PAPERSBOT_BLUESKY_HANDLE"),
		Password:   lookup("PAPERSBOT_BLUESKY_PASSWORD"),
	}
	if creds.Identifier != "" && creds.Password != "" {
		return creds, nil
	}

	fromFile, err := loadCredentialsFile(file)
	if err != nil {
		return bluesky.Credentials{}, err
	}
	creds = bluesky.Credentials{
		Identifier: fromFile.BlueskyHandle,
		Password:   fromFile.BlueskyPassword,
	}
	if creds.Identifier == "" || creds.Password == "" {
		return bluesky.Credentials{}, fmt.Errorf("bluesky: %w", ErrNotConfigured)
	}
	return creds, nil
}
