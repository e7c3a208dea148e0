package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type IdeaID string

// NewIdeaID generates a new unique IdeaID
func NewIdeaID() IdeaID {
	return IdeaID(uuid.New().String())
}

type Language string

const (
	LanguageEnglish Language = "English"
	LanguageKorean  Language = "Korean"
)

// Validate checks if the language is supported
func (l Language) Validate() error {
	switch l {
	case LanguageEnglish, LanguageKorean:
		return nil
	default:
		return goerr.Wrap(ErrInvalidInput, "unsupported language", goerr.V("language", l))
	}
}

// MinIdeaTextLength is the minimum length of the free-text idea accepted for generation.
const MinIdeaTextLength = 10

// Idea is a user-owned record of AI-generated artifacts. UserID is set once at
// creation and never changes afterward.
type Idea struct {
	ID        IdeaID       `firestore:"id" json:"id"`
	Title     string       `firestore:"title" json:"title"`
	Summary   string       `firestore:"summary" json:"summary"`
	Outline   string       `firestore:"outline" json:"outline"`
	MindMap   *MindMapNode `firestore:"mindMap,omitempty" json:"mindMap,omitempty"`
	Favorited bool         `firestore:"favorited" json:"favorited"`
	CreatedAt time.Time    `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time    `firestore:"updatedAt" json:"updatedAt"`
	UserID    string       `firestore:"userId" json:"userId"`
	Language  Language     `firestore:"language" json:"language"`
}

// Validate checks required fields of a persisted idea
func (x *Idea) Validate() error {
	if x.ID == "" {
		return goerr.Wrap(ErrInvalidInput, "idea ID is empty")
	}
	if x.UserID == "" {
		return goerr.Wrap(ErrInvalidInput, "idea owner is empty")
	}
	if strings.TrimSpace(x.Title) == "" {
		return goerr.Wrap(ErrInvalidInput, "idea title is empty")
	}
	return x.Language.Validate()
}

// Clone returns a deep copy of the idea
func (x *Idea) Clone() *Idea {
	if x == nil {
		return nil
	}
	copied := *x
	copied.MindMap = x.MindMap.Clone()
	return &copied
}
