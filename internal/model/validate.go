package model

import (
	"errors"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MaxFolderNameLength = 100
	MaxURLLength        = 2048
)

var errNotHTTPURL = validation.NewError("validation_is_http_url", "must be an http or https URL")

// ValidateFolderName trims name and rejects it when empty or too long.
func ValidateFolderName(name string) (string, error) {
	name = strings.TrimSpace(name)
	err := validation.Validate(name,
		validation.Required,
		validation.RuneLength(1, MaxFolderNameLength),
	)
	if err != nil {
		return "", &ValidationError{Field: "name", Err: err}
	}
	return name, nil
}

// ValidateURL trims raw and rejects it when empty or too long.
func ValidateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	err := validation.Validate(raw,
		validation.Required,
		validation.Length(1, MaxURLLength),
	)
	if err != nil {
		return "", &ValidationError{Field: "url", Err: err}
	}
	return raw, nil
}

// ValidateHTTPURL is ValidateURL plus an absolute http(s) URL check.
func ValidateHTTPURL(raw string) (string, error) {
	raw, err := ValidateURL(raw)
	if err != nil {
		return "", err
	}
	if err := validation.Validate(raw, validation.By(isHTTPURL)); err != nil {
		return "", &ValidationError{Field: "url", Err: err}
	}
	return raw, nil
}

// ValidateDeleteMode rejects anything but DeleteKeep and DeleteBookmarks.
func ValidateDeleteMode(mode DeleteMode) error {
	err := validation.Validate(string(mode),
		validation.Required,
		validation.In(string(DeleteKeep), string(DeleteBookmarks)).Error("must be keep or delete"),
	)
	if err != nil {
		return &ValidationError{Field: "mode", Err: err}
	}
	return nil
}

func isHTTPURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return errNotHTTPURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errNotHTTPURL
	}
	return nil
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
