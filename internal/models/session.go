package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const SessionTypeInteractive = "INTERACTIVE"

type GameSession struct {
	ID          uuid.UUID       `json:"id"`
	UploadID    uuid.UUID       `json:"upload_id"`
	UserID      uuid.UUID       `json:"user_id"`
	SessionType string          `json:"session_type"`
	GameData    json.RawMessage `json:"game_data"`
	Completed   bool            `json:"completed"`
	CompletedAt *time.Time      `json:"completed_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

// GameData is the fixed output shape of the content generator. The database
// stores it as opaque JSON; only the generator enforces its invariants.
type GameData struct {
	Title              string        `json:"title"`
	Summary            string        `json:"summary"`
	LearningObjectives []string      `json:"learning_objectives,omitempty"`
	Roadmap            *Roadmap      `json:"roadmap,omitempty"`
	Diagrams           []Diagram     `json:"diagrams,omitempty"`
	Video              *VideoScript  `json:"video,omitempty"`
	Roleplay           *Roleplay     `json:"roleplay,omitempty"`
	Quiz               Quiz          `json:"quiz"`
	Gamification       *Gamification `json:"gamification,omitempty"`
}

type Roadmap struct {
	Modules []RoadmapModule `json:"modules"`
}

type RoadmapModule struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Lessons     []Lesson `json:"lessons"`
}

type Lesson struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Diagram struct {
	Title       string `json:"title"`
	Type        string `json:"type"` // "flowchart" | "mindmap"
	Description string `json:"description"`
	Markup      string `json:"markup"`
}

type VideoScript struct {
	Title  string       `json:"title"`
	Scenes []VideoScene `json:"scenes"`
}

type VideoScene struct {
	Narration       string `json:"narration"`
	Visual          string `json:"visual"`
	DurationSeconds int    `json:"duration_seconds"`
}

type Roleplay struct {
	Scenario  string `json:"scenario"`
	Role      string `json:"role"`
	Objective string `json:"objective"`
}

type Quiz struct {
	Questions []GameQuestion `json:"questions"`
}

const (
	QuestionMultipleChoice = "multiple-choice"
	QuestionDragDrop       = "drag-drop"
	QuestionSequencing     = "sequencing"
)

// GameQuestion covers all three question types; only the fields relevant to
// a question's type are populated.
type GameQuestion struct {
	Question    string            `json:"question"`
	Type        string            `json:"type"`
	Points      int               `json:"points"`
	Options     []string          `json:"options,omitempty"`
	AnswerIndex int               `json:"answer_index,omitempty"`
	Items       []string          `json:"items,omitempty"`
	Categories  []string          `json:"categories,omitempty"`
	CorrectMap  map[string]string `json:"correct_map,omitempty"` // item -> category
	Sequence    []string          `json:"sequence,omitempty"`    // canonical order
	Explanation string            `json:"explanation,omitempty"`
}

type Gamification struct {
	Achievements []Achievement `json:"achievements"`
}

type Achievement struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	XP          int    `json:"xp"`
}

// SubmittedAnswer is one user answer keyed by question index. AnswerIndex is
// used for multiple-choice, Mapping for drag-drop, Order for sequencing.
type SubmittedAnswer struct {
	QuestionIndex int               `json:"question_index"`
	AnswerIndex   *int              `json:"answer_index,omitempty"`
	Mapping       map[string]string `json:"mapping,omitempty"`
	Order         []string          `json:"order,omitempty"`
}
