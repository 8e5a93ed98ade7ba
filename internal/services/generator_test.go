package services

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"studyquest-backend/internal/models"
)

const studyText = `Photosynthesis is the process by which plants convert light
into chemical energy. Photosynthesis happens in the chloroplast, where
chlorophyll pigments absorb sunlight. The products of photosynthesis are
glucose and oxygen. Chlorophyll gives plants their green color, and the
chloroplast contains stacked membranes called thylakoids where chlorophyll
does its work.`

func TestTemplateGenerator_Generate(t *testing.T) {
	g := NewTemplateGenerator(0)

	game, err := g.Generate(context.Background(), studyText)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if game.Title == "" {
		t.Error("Expected non-empty title")
	}
	if !strings.Contains(game.Title, "Photosynthesis") {
		t.Errorf("Expected title to feature the top concept, got %q", game.Title)
	}

	if len(game.LearningObjectives) == 0 {
		t.Error("Expected learning objectives")
	}
	if game.Roadmap == nil || len(game.Roadmap.Modules) == 0 {
		t.Fatal("Expected roadmap with modules")
	}
	for _, m := range game.Roadmap.Modules {
		if len(m.Lessons) == 0 {
			t.Errorf("Module %q has no lessons", m.Title)
		}
	}
	if len(game.Diagrams) == 0 {
		t.Error("Expected diagrams")
	}
	for _, d := range game.Diagrams {
		if d.Markup == "" {
			t.Errorf("Diagram %q has empty markup", d.Title)
		}
	}
	if game.Video == nil || len(game.Video.Scenes) == 0 {
		t.Error("Expected video script with scenes")
	}
	if game.Roleplay == nil || game.Roleplay.Scenario == "" {
		t.Error("Expected roleplay scenario")
	}
	if len(game.Quiz.Questions) == 0 {
		t.Fatal("Expected quiz questions")
	}
	if game.Gamification == nil || len(game.Gamification.Achievements) == 0 {
		t.Error("Expected achievements")
	}
}

func TestTemplateGenerator_QuizShape(t *testing.T) {
	g := NewTemplateGenerator(0)

	game, err := g.Generate(context.Background(), studyText)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	types := make(map[string]bool)
	for _, q := range game.Quiz.Questions {
		types[q.Type] = true

		if q.Points <= 0 {
			t.Errorf("Question %q has non-positive points", q.Question)
		}
		switch q.Type {
		case models.QuestionMultipleChoice:
			if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
				t.Errorf("Answer index %d out of range for %d options", q.AnswerIndex, len(q.Options))
			}
		case models.QuestionDragDrop:
			if len(q.CorrectMap) == 0 {
				t.Error("Drag-drop question has empty correct map")
			}
			for item, category := range q.CorrectMap {
				found := false
				for _, c := range q.Categories {
					if c == category {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("Item %q maps to unknown category %q", item, category)
				}
			}
		case models.QuestionSequencing:
			if len(q.Sequence) < 2 {
				t.Error("Sequencing question needs at least two steps")
			}
		}
	}

	for _, want := range []string{models.QuestionMultipleChoice, models.QuestionDragDrop, models.QuestionSequencing} {
		if !types[want] {
			t.Errorf("Expected a %q question in the quiz", want)
		}
	}
}

func TestTemplateGenerator_SingleConceptQuiz(t *testing.T) {
	g := NewTemplateGenerator(0)

	// Only one token survives keyword extraction here, so the quiz has to
	// shrink instead of repeating the same concept across options and map keys.
	game, err := g.Generate(context.Background(), "mitochondria mitochondria mitochondria and the of")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, q := range game.Quiz.Questions {
		switch q.Type {
		case models.QuestionMultipleChoice:
			seen := make(map[string]bool)
			for _, o := range q.Options {
				if seen[o] {
					t.Errorf("Duplicate option %q", o)
				}
				seen[o] = true
			}
			if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
				t.Errorf("Answer index %d out of range for %d options", q.AnswerIndex, len(q.Options))
			}
		case models.QuestionDragDrop:
			if len(q.CorrectMap) != len(q.Items) {
				t.Errorf("Correct map has %d entries for %d items", len(q.CorrectMap), len(q.Items))
			}
			if len(q.Categories) != len(q.Items) {
				t.Errorf("Got %d categories for %d items", len(q.Categories), len(q.Items))
			}
			for _, item := range q.Items {
				if _, ok := q.CorrectMap[item]; !ok {
					t.Errorf("Item %q missing from correct map", item)
				}
			}
		}
	}
}

func TestTemplateGenerator_Deterministic(t *testing.T) {
	g := NewTemplateGenerator(0)

	first, err := g.Generate(context.Background(), studyText)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, err := g.Generate(context.Background(), studyText)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical output for identical input")
	}
}

func TestTemplateGenerator_NoConcepts(t *testing.T) {
	g := NewTemplateGenerator(0)

	_, err := g.Generate(context.Background(), "a an the of to in is")
	if err == nil {
		t.Error("Expected error for text with no usable concepts")
	}
}

func TestTemplateGenerator_ContextCancelled(t *testing.T) {
	g := NewTemplateGenerator(5 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, studyText)
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
