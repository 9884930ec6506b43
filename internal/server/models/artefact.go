package models

import "time"

// Category is a named artefact grouping. Names are unique; artefacts
// reference a category resolved (or created) from the submitted string.
type Category struct {
	ID           int64  `json:"id"`
	CategoryName string `json:"category_name"`
}

// Associated is a person linked to an artefact, resolved the same way
// as Category.
type Associated struct {
	ID     int64  `json:"id"`
	Person string `json:"person"`
}

// ArtefactImage is the stored-image metadata carried on an artefact.
// LocalPath is empty when the image lives in object storage.
type ArtefactImage struct {
	URL       string `json:"imgURL"`
	Name      string `json:"imgName"`
	Type      string `json:"imgType"`
	Size      string `json:"imgSize"`
	LocalPath string `json:"localPath"`
}

// Artefact is a registered record owned by exactly one user. Category and
// Associated are nil until resolution completes during registration.
type Artefact struct {
	ID           int64         `json:"id"`
	UserID       int64         `json:"userId"`
	ArtefactName string        `json:"artefactName"`
	Description  string        `json:"description"`
	Memories     string        `json:"memories"`
	Location     string        `json:"location"`
	ArtefactDate *time.Time    `json:"artefactDate,omitempty"`
	Category     *Category     `json:"category"`
	Associated   *Associated   `json:"associated"`
	Image        ArtefactImage `json:"artefactImg"`
	CreatedAt    time.Time     `json:"-"`
}
