package model

// Folder is a named group of bookmarks. Exactly one folder is the default.
type Folder struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// NewFolderParams holds parameters for creating a new Folder.
type NewFolderParams struct {
	Name      string
	IsDefault bool
}

// NewFolder creates a Folder with generated UUID.
func NewFolder(params NewFolderParams) Folder {
	return Folder{
		ID:        GenerateUUID(),
		Name:      params.Name,
		IsDefault: params.IsDefault,
	}
}

// DeleteMode selects what happens to member bookmarks when a folder is deleted.
type DeleteMode string

const (
	// DeleteKeep removes the folder and strips it from every bookmark.
	DeleteKeep DeleteMode = "keep"
	// DeleteBookmarks removes the folder and every bookmark left without a folder.
	DeleteBookmarks DeleteMode = "delete"
)

// String implements fmt.Stringer.
func (m DeleteMode) String() string {
	return string(m)
}

// ParseDeleteMode parses a query value. Empty means DeleteKeep.
func ParseDeleteMode(s string) (DeleteMode, error) {
	if s == "" {
		return DeleteKeep, nil
	}
	mode := DeleteMode(s)
	if err := ValidateDeleteMode(mode); err != nil {
		return "", err
	}
	return mode, nil
}
