package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studyquest-backend/internal/extract"
	"studyquest-backend/internal/models"
)

// ContentGenerator turns normalized study text into a playable GameData
// structure. There is exactly one implementation today (template-based); a
// model-backed generator can slot in behind this interface later without
// touching callers, as long as it honors the output schema.
type ContentGenerator interface {
	Generate(ctx context.Context, text string) (*models.GameData, error)
}

// TemplateGenerator fills a fixed content template with the top-ranked
// keywords of the source text. No branching depends on document semantics
// beyond keyword substitution.
type TemplateGenerator struct {
	delay time.Duration
}

// NewTemplateGenerator builds a generator with an artificial processing
// delay that simulates model latency. Pass 0 to disable (tests do).
func NewTemplateGenerator(delay time.Duration) *TemplateGenerator {
	return &TemplateGenerator{delay: delay}
}

func (g *TemplateGenerator) Generate(ctx context.Context, text string) (*models.GameData, error) {
	if g.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(g.delay):
		}
	}

	concepts := extract.Concepts(text)
	if len(concepts) == 0 {
		return nil, fmt.Errorf("no concepts could be extracted from the text")
	}

	// The prose templates tolerate repeats, but the quiz must not contain
	// duplicate options or collapsed answer maps, so quiz construction works
	// from the distinct set only.
	distinct := make([]string, 0, 3)
	for _, c := range concepts {
		if len(distinct) == 3 {
			break
		}
		distinct = append(distinct, titleCase(c))
	}

	primary := distinct[0]
	secondary := primary
	if len(distinct) > 1 {
		secondary = distinct[1]
	}
	tertiary := secondary
	if len(distinct) > 2 {
		tertiary = distinct[2]
	}

	game := &models.GameData{
		Title:   fmt.Sprintf("Mastering %s: An Interactive Journey", primary),
		Summary: fmt.Sprintf("This study set walks you through %s, with supporting material on %s and %s. Work through the roadmap, watch the explainer, and prove your knowledge in the quiz.", primary, secondary, tertiary),
		LearningObjectives: []string{
			fmt.Sprintf("Explain the core ideas behind %s", primary),
			fmt.Sprintf("Relate %s to %s", primary, secondary),
			fmt.Sprintf("Apply what you learned about %s in a practical scenario", tertiary),
		},
		Roadmap: &models.Roadmap{
			Modules: []models.RoadmapModule{
				{
					Title:       fmt.Sprintf("Foundations of %s", primary),
					Description: fmt.Sprintf("Start with the essential vocabulary and ideas around %s.", primary),
					Lessons: []models.Lesson{
						{Title: fmt.Sprintf("What is %s?", primary), Description: fmt.Sprintf("A first look at %s and why it matters.", primary)},
						{Title: fmt.Sprintf("Key terms in %s", primary), Description: "The vocabulary you need before going deeper."},
					},
				},
				{
					Title:       fmt.Sprintf("Going deeper: %s", secondary),
					Description: fmt.Sprintf("Connect %s with %s and build a fuller picture.", primary, secondary),
					Lessons: []models.Lesson{
						{Title: fmt.Sprintf("%s in context", secondary), Description: fmt.Sprintf("How %s relates to the bigger topic.", secondary)},
						{Title: fmt.Sprintf("Practice with %s", tertiary), Description: fmt.Sprintf("Hands-on exercises featuring %s.", tertiary)},
					},
				},
			},
		},
		Diagrams: []models.Diagram{
			{
				Title:       fmt.Sprintf("%s at a glance", primary),
				Type:        "flowchart",
				Description: fmt.Sprintf("How the main ideas of %s connect.", primary),
				Markup:      fmt.Sprintf("graph TD\n  A[%s] --> B[%s]\n  A --> C[%s]\n  B --> D[Practice]\n  C --> D", primary, secondary, tertiary),
			},
			{
				Title:       "Concept map",
				Type:        "mindmap",
				Description: "The top concepts of this material, clustered.",
				Markup:      fmt.Sprintf("mindmap\n  root((%s))\n    %s\n    %s", primary, secondary, tertiary),
			},
		},
		Video: &models.VideoScript{
			Title: fmt.Sprintf("%s explained in three minutes", primary),
			Scenes: []models.VideoScene{
				{Narration: fmt.Sprintf("Today we are looking at %s, one of the central ideas in your study material.", primary), Visual: fmt.Sprintf("Title card: %s", primary), DurationSeconds: 20},
				{Narration: fmt.Sprintf("%s does not stand alone. It connects closely with %s, as we will see next.", primary, secondary), Visual: "Split screen comparing the two concepts", DurationSeconds: 40},
				{Narration: fmt.Sprintf("Finally, %s shows up whenever you put this into practice. Keep it in mind during the quiz.", tertiary), Visual: "Recap checklist", DurationSeconds: 30},
			},
		},
		Roleplay: &models.Roleplay{
			Scenario:  fmt.Sprintf("You are tutoring a fellow student who has never heard of %s. They keep mixing it up with %s.", primary, secondary),
			Role:      "Peer tutor",
			Objective: fmt.Sprintf("Explain %s in your own words and clear up the confusion with %s.", primary, secondary),
		},
		Quiz: buildQuiz(distinct, primary, secondary, tertiary),
		Gamification: &models.Gamification{
			Achievements: []models.Achievement{
				{Name: "First Steps", Description: fmt.Sprintf("Open the %s study set for the first time.", primary), XP: 10},
				{Name: "Quiz Taker", Description: "Complete the quiz once.", XP: 25},
				{Name: fmt.Sprintf("%s Scholar", primary), Description: fmt.Sprintf("Score at least 75%% on the %s quiz.", primary), XP: 50},
			},
		},
	}

	return game, nil
}

var dragDropCategories = []string{"Core concept", "Supporting concept", "Applied concept"}

// buildQuiz assembles the fixed three-question quiz from the distinct concept
// set. With fewer than three concepts the multiple-choice options and the
// drag-drop answer map shrink to match, so no question ever carries duplicate
// options or collapsed map keys.
func buildQuiz(distinct []string, primary, secondary, tertiary string) models.Quiz {
	options := make([]string, 0, len(distinct)+1)
	options = append(options, distinct...)
	options = append(options, "None of these")

	items := make([]string, len(distinct))
	copy(items, distinct)
	categories := dragDropCategories[:len(distinct)]
	correct := make(map[string]string, len(distinct))
	for i, item := range items {
		correct[item] = categories[i]
	}

	return models.Quiz{
		Questions: []models.GameQuestion{
			{
				Question:    "Which concept appears most often in this material?",
				Type:        models.QuestionMultipleChoice,
				Points:      10,
				Options:     options,
				AnswerIndex: 0,
				Explanation: fmt.Sprintf("%s is the most frequent concept in the source text.", primary),
			},
			{
				Question:   "Match each concept to its role in this study set.",
				Type:       models.QuestionDragDrop,
				Points:     20,
				Items:      items,
				Categories: categories,
				CorrectMap: correct,
			},
			{
				Question: "Put the learning path in the right order.",
				Type:     models.QuestionSequencing,
				Points:   15,
				Sequence: []string{
					fmt.Sprintf("Learn the basics of %s", primary),
					fmt.Sprintf("Connect it with %s", secondary),
					fmt.Sprintf("Apply %s in practice", tertiary),
				},
			},
		},
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
